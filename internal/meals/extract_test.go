package meals

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single line with all three labels",
			text: "Breakfast: Oats. Lunch: Salad. Dinner: Soup.",
			want: []string{"Breakfast: Oats.", "Lunch: Salad.", "Dinner: Soup."},
		},
		{
			name: "no labels falls back to lines",
			text: "Just eat food.",
			want: []string{"Just eat food."},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "continuation merged",
			text: "Breakfast: Oats.\nMore oats please.",
			want: []string{"Breakfast: Oats. More oats please."},
		},
		{
			name: "one label per line, out of order",
			text: "1. Dinner: Grilled salmon\n2. Breakfast: Greek yogurt\n3. Lunch: Turkey wrap",
			want: []string{"Breakfast: Greek yogurt", "Lunch: Turkey wrap", "Dinner: Grilled salmon"},
		},
		{
			name: "case-insensitive substring match",
			text: "Here's your DINNER: lentil stew",
			want: []string{"Dinner: lentil stew"},
		},
		{
			name: "empty label filled by continuation",
			text: "**Lunch:**\n  Quinoa bowl with chickpeas\n\n  and tahini",
			want: []string{"Lunch: ** Quinoa bowl with chickpeas and tahini"},
		},
		{
			name: "empty label without continuation is dropped",
			text: "Breakfast:\nLunch: Salad",
			want: []string{"Lunch: Salad"},
		},
		{
			name: "last match wins",
			text: "Breakfast: Toast\nBreakfast: Eggs",
			want: []string{"Breakfast: Eggs"},
		},
		{
			name: "meal mention with colon is not a continuation",
			text: "Breakfast: Oats\nTip for dinner - keep it light: less salt",
			want: []string{"Breakfast: Oats"},
		},
		{
			name: "preamble before first label is ignored",
			text: "Here are some ideas:\nBreakfast: Oats\nLunch: Salad",
			want: []string{"Breakfast: Oats", "Lunch: Salad"},
		},
		{
			name: "crlf line endings",
			text: "Breakfast: Oats\r\nwith honey\r\nDinner: Soup",
			want: []string{"Breakfast: Oats with honey", "Dinner: Soup"},
		},
		{
			name: "fallback keeps every non-blank line",
			text: "  Eat greens  \n\n\nDrink water\nSleep well\nWalk daily",
			want: []string{"Eat greens", "Drink water", "Sleep well", "Walk daily"},
		},
		{
			name: "only empty labels falls back",
			text: "Breakfast:\n\nDinner:",
			want: []string{"Breakfast:", "Dinner:"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.text)
			if got == nil {
				t.Fatalf("expected non-nil result")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Extract(%q)\n got  %q\n want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractCapsLabelledResultAtThree(t *testing.T) {
	text := strings.Join([]string{
		"Breakfast: a", "Lunch: b", "Dinner: c",
		"Breakfast: d", "Lunch: e", "Dinner: f",
	}, "\n")
	got := Extract(text)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d: %q", len(got), got)
	}
	if got[0] != "Breakfast: d" || got[2] != "Dinner: f" {
		t.Fatalf("expected last occurrences to win, got %q", got)
	}
}

func TestSplitLinesHonorsAllLineBreaks(t *testing.T) {
	for _, sep := range []string{"\n", "\r\n", "\r", "\v", "\f", "\x1c", "\x1d", "\x1e", "\u0085", "\u2028", "\u2029"} {
		got := splitLines("one" + sep + "two")
		if !reflect.DeepEqual(got, []string{"one", "two"}) {
			t.Fatalf("separator %q: expected two lines, got %q", sep, got)
		}
	}

	got := Extract("Breakfast: Oats\fLunch: Salad\vDinner: Soup")
	want := []string{"Breakfast: Oats", "Lunch: Salad", "Dinner: Soup"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIndexFold(t *testing.T) {
	if got := indexFold("Your LuNcH: here", "lunch:"); got != 5 {
		t.Fatalf("expected index 5, got %d", got)
	}
	if got := indexFold("lunch", "lunch:"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := indexFold("", "dinner:"); got != -1 {
		t.Fatalf("expected -1 for empty input, got %d", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(1400, 102)
	if !strings.Contains(got, "approximately 1400 calories and 102g of protein per day") {
		t.Fatalf("expected targets interpolated, got %q", got)
	}
	if !strings.HasPrefix(got, "Generate 3 simple meal ideas (breakfast, lunch, dinner)") {
		t.Fatalf("unexpected prompt prefix: %q", got)
	}
	if !strings.HasSuffix(got, "'Breakfast: [description]. Lunch: [description]. Dinner: [description].'") {
		t.Fatalf("unexpected prompt suffix: %q", got)
	}
}
