package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller has no valid session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCredentialsNotConfigured is returned when AUTH_USER/AUTH_PASS are missing
	ErrCredentialsNotConfigured = errors.New("server credentials not configured (AUTH_USER/AUTH_PASS)")

	// ErrRuleNotFound is returned when the upstream knows no rule with the given id
	ErrRuleNotFound = errors.New("rule not found")
)

// UpstreamError reports a failed provider call. Message carries the
// provider's own error text when the envelope contained one, otherwise a
// generic "Error <status>" string.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// NewUpstreamError builds an UpstreamError from an envelope's first error
// message, falling back to the HTTP status code.
func NewUpstreamError(statusCode int, messages []EnvelopeMessage) *UpstreamError {
	msg := fmt.Sprintf("Error %d", statusCode)
	if len(messages) > 0 && messages[0].Message != "" {
		msg = messages[0].Message
	}
	return &UpstreamError{StatusCode: statusCode, Message: msg}
}

// ParseError reports an upstream response body that did not match the
// expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response shape from %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
