package server

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"simplynourished/internal/plan"
	"simplynourished/internal/session"
)

type createSessionResponse struct {
	SessionID string        `json:"session_id"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	State     session.State `json:"state"`
}

type recipeFetchResponse struct {
	TaskID string        `json:"task_id"`
	State  session.State `json:"state"`
}

// formFieldsFromJSON turns a decoded JSON object into raw form values.
// Null and unknown keys are dropped so they count as missing.
func formFieldsFromJSON(body map[string]any) map[string]string {
	fields := make(map[string]string, len(plan.FormFields))
	for _, name := range plan.FormFields {
		raw, ok := body[name]
		if !ok || raw == nil {
			continue
		}
		fields[name] = toString(raw)
	}
	return fields
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
