package dto

import (
	"encoding/json"
	"strings"
)

// ErrorResponse is the error body returned by the backend. Detail is usually a
// string; request validation failures carry a list of objects instead.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Message returns Detail as text. String details are unquoted, anything else is
// returned as compact JSON.
func (e ErrorResponse) Message() string {
	if len(e.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(e.Detail, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(e.Detail))
}
