package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable indicates the service could not be reached.
type ErrUnavailable struct {
	Service string
	Err     error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
	}
	return e.Service + " unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrBackend indicates the service answered with a non-2xx status.
type ErrBackend struct {
	StatusCode int
	Detail     string
}

func (e *ErrBackend) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
}

// ErrInvalidResponse indicates the body was not valid JSON or did not match
// the expected shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// Message turns an error from this package into a single line suitable for
// a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var unavail *ErrUnavailable
	if errors.As(err, &unavail) {
		return "Could not reach the server. Check your connection and try again."
	}
	var be *ErrBackend
	if errors.As(err, &be) {
		if be.Detail != "" {
			return be.Detail
		}
		return fmt.Sprintf("Server error (%d).", be.StatusCode)
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return "The server sent a response that could not be read."
	}
	return err.Error()
}

// ParseDetail extracts a human-readable message from an error body. FastAPI
// sends {"detail": "..."} or, for validation errors, {"detail": [{"msg": ...}]}.
// GoTrue and PostgREST use "msg", "message" or "error_description".
func ParseDetail(body []byte) string {
	var payload struct {
		Detail           json.RawMessage `json:"detail"`
		Message          string          `json:"message"`
		Msg              string          `json:"msg"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &items) == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	switch {
	case payload.ErrorDescription != "":
		return payload.ErrorDescription
	case payload.Msg != "":
		return payload.Msg
	case payload.Message != "":
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
