package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	text := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail == "" {
		return text
	}
	return text + ": " + e.Detail
}

// Temporary reports whether the failure is on the server side.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// newStatusError extracts FastAPI's {"detail": "..."} body when present and
// falls back to the raw body text.
func newStatusError(code int, body []byte) *StatusError {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			detail = s
		} else {
			detail = string(payload.Detail)
		}
	}
	return &StatusError{StatusCode: code, Detail: truncate(detail, 200)}
}

// truncate shortens s to at most n bytes on a rune boundary, appending
// "..." if truncated.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
