package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Kind is the closed set of failure classes a backend call can end in.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota + 1
	// KindUnauthorized is HTTP 401.
	KindUnauthorized
	// KindBadRequest is any other 4xx; Message holds the validation detail.
	KindBadRequest
	// KindServer is 5xx or an undecodable success body.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

var (
	ErrNetwork      = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)

// APIError is the only error type that leaves the gateway for a failed call.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Method     string
	Path       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		if e.Message != "" {
			return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrBadRequest:
		return e.Kind == KindBadRequest
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// NotFound reports whether the backend answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or 0 if err did not come from the gateway.
func KindOf(err error) Kind {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Kind
	}
	return 0
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status >= 500:
		return KindServer
	default:
		return KindBadRequest
	}
}

const maxMessageLen = 512

// parseError turns a non-2xx response into an *APIError, extracting a
// human-readable message from the body without keeping the body itself.
func parseError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Message:    extractMessage(body),
		Method:     method,
		Path:       path,
	}
}

func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Message != "" {
			return truncate(structured.Message)
		}
		if structured.Error != "" {
			return truncate(structured.Error)
		}
		return ""
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		return truncate(plain)
	}

	if strings.HasPrefix(trimmed, "<") {
		// HTML error pages carry nothing a user should see.
		return ""
	}
	return truncate(trimmed)
}

// truncate cuts s to at most maxMessageLen bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	n := maxMessageLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
