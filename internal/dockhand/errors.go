package dockhand

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for programmatic classification with errors.Is.
var (
	// ErrConfiguration indicates missing or malformed startup configuration.
	ErrConfiguration = errors.New("dockhand configuration error")

	// ErrAuthentication indicates that Dockhand rejected the configured
	// credentials or the session obtained with them.
	ErrAuthentication = errors.New("dockhand authentication failed")
)

// maxErrorBodyInMessage caps how much of an upstream body is echoed in Error().
// The full body stays available on UpstreamError.Body.
const maxErrorBodyInMessage = 512

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// AuthenticationError is returned when a login fails or a request is rejected
// with 401 after the single re-authentication attempt.
type AuthenticationError struct {
	// StatusCode is the HTTP status that caused the failure, if any.
	StatusCode int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dockhand authentication failed (HTTP %d): %s", e.StatusCode, e.Reason)
	}
	return "dockhand authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// TransportError is returned when a request did not produce an HTTP response.
type TransportError struct {
	// Op is the HTTP method, or "login" for the authentication call.
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dockhand request %s %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UpstreamError is returned for non-2xx responses other than 401.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	// Body is the response body, verbatim.
	Body string
}

func (e *UpstreamError) Error() string {
	body := e.Body
	if len(body) > maxErrorBodyInMessage {
		body = body[:maxErrorBodyInMessage] + "..."
	}
	if body == "" {
		return fmt.Sprintf("dockhand returned HTTP %d for %s %s", e.StatusCode, e.Method, e.Path)
	}
	return fmt.Sprintf("dockhand returned HTTP %d for %s %s: %s", e.StatusCode, e.Method, e.Path, body)
}
