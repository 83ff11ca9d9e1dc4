// Package meals turns free-form language-model output into labelled meal
// suggestions and builds the prompt that asks for them.
package meals

import (
	"sort"
	"strings"
)

// Meal labels in emission order.
const (
	Breakfast = "Breakfast"
	Lunch     = "Lunch"
	Dinner    = "Dinner"
)

var labels = []string{Breakfast, Lunch, Dinner}

type marker struct {
	label string
	start int // index of the keyword
	end   int // index just past the colon
}

// Extract pulls up to one "Label: description" entry per meal out of text.
// When no labelled meal is found it falls back to every non-blank line,
// trimmed. The result is never nil.
func Extract(text string) []string {
	parts := make(map[string]string, len(labels))
	current := ""

	for _, line := range splitLines(text) {
		found := findMarkers(line)
		if len(found) == 0 {
			trimmed := strings.TrimSpace(line)
			if current == "" || trimmed == "" || mentionsLabeledMeal(line) {
				continue
			}
			if parts[current] == "" {
				parts[current] = trimmed
			} else {
				parts[current] += " " + trimmed
			}
			continue
		}

		for i, m := range found {
			end := len(line)
			if i+1 < len(found) {
				end = found[i+1].start
			}
			parts[m.label] = strings.TrimSpace(line[m.end:end])
			current = m.label
		}
	}

	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if desc := parts[label]; desc != "" {
			out = append(out, label+": "+desc)
		}
	}
	if len(out) > 0 {
		return out
	}
	return nonBlankLines(text)
}

// findMarkers returns every "<meal>:" occurrence in line, ordered by
// position. Matching ignores ASCII case.
func findMarkers(line string) []marker {
	var found []marker
	for _, label := range labels {
		needle := strings.ToLower(label) + ":"
		for from := 0; from < len(line); {
			idx := indexFold(line[from:], needle)
			if idx < 0 {
				break
			}
			start := from + idx
			found = append(found, marker{label: label, start: start, end: start + len(needle)})
			from = start + len(needle)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })
	return found
}

// mentionsLabeledMeal reports lines such as "Dinner - option 2: ..." that
// name a meal and carry a colon without forming a marker. Those never count
// as continuations.
func mentionsLabeledMeal(line string) bool {
	if !strings.Contains(line, ":") {
		return false
	}
	for _, label := range labels {
		if indexFold(line, strings.ToLower(label)) >= 0 {
			return true
		}
	}
	return false
}

// indexFold is strings.Index with ASCII case folding. needle must be
// lowercase ASCII.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		match := true
		for j := 0; j < n; j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			return true
		}
		return false
	})
}

func nonBlankLines(text string) []string {
	lines := splitLines(text)
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
