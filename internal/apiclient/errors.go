package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError wraps a network-level failure: the request never produced an
// HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Message is extracted from the structured
// error body when the server provides one, otherwise the status text.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string { return e.Message }

// AuthError reports a credential rejection or a failed token refresh.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// errorBody mirrors the shapes the server emits: {"detail": "..."},
// {"detail": [{"msg": "..."}, ...]} or {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type errorItem struct {
	Msg string `json:"msg"`
}

// extractErrorMessage pulls a human-readable message out of an error response
// body, falling back to the transport status text.
func extractErrorMessage(body []byte, statusText string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail != "" {
				return detail
			}

			var items []errorItem
			if err := json.Unmarshal(parsed.Detail, &items); err == nil && len(items) > 0 {
				msgs := make([]string, 0, len(items))
				for _, item := range items {
					if item.Msg != "" {
						msgs = append(msgs, item.Msg)
					}
				}
				if len(msgs) > 0 {
					return strings.Join(msgs, ", ")
				}
			}
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if statusText != "" {
		return statusText
	}
	return "unknown error"
}
