package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAuthenticated is returned by session-gated operations when no
	// session is active. No request is sent.
	ErrNotAuthenticated = &AuthError{Message: "not authenticated"}
)

// ValidationError reports input rejected before any request was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthError reports a failed login or a missing session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message())
}

// Message extracts the server's {"error": "..."} text, falling back to the
// raw body and finally to the status text.
func (e *HTTPError) Message() string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if s := strings.TrimSpace(string(e.Body)); s != "" {
		return s
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// NetworkError is a request that produced no response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrUnavailable, e.Err)
}

func (e *NetworkError) Is(target error) bool { return target == ErrUnavailable }

func (e *NetworkError) Unwrap() error { return e.Err }
