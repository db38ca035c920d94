// Package apierr classifies failures from the CineQuest backend so callers
// can branch on what went wrong without parsing error strings.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Category determines how an error may be handled by background refresh
// logic. User-facing calls never auto-retry regardless of category; the one
// 401 refresh-retry is a separate mechanism in the transport layer.
type Category int

const (
	// Recoverable errors may be retried by background cache refreshes.
	// Examples: 5xx, 408, network timeouts, connection failures.
	Recoverable Category = iota

	// Irrecoverable errors fail immediately without retry.
	// Examples: 400, 401, 403, 404, 429.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ErrNotFound marks a domain-expected absence (no rating yet, empty
// history). Resource clients that document 404-as-null never return it;
// everything else surfaces it wrapped in *Error.
var ErrNotFound = errors.New("not found")

// Error is a classified request failure. Status is 0 for network-level
// failures where no response was received.
type Error struct {
	Status  int    // HTTP status, 0 when no response arrived
	Message string // backend-provided message, if any
	Method  string // original request method
	URL     string // original request URL
	Network bool   // true when the failure was connectivity/timeout
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	if e.Network {
		return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Category reports whether the error is safe for a background retry.
func (e *Error) Category() Category {
	if e.Network {
		return Recoverable
	}
	switch {
	case e.Status == http.StatusRequestTimeout:
		return Recoverable
	case e.Status >= 400 && e.Status < 500:
		return Irrecoverable
	case e.Status >= 500:
		return Recoverable
	default:
		return Recoverable
	}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// IsUnauthorized reports an HTTP 401.
func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }

// IsForbidden reports an HTTP 403.
func IsForbidden(err error) bool { return StatusOf(err) == http.StatusForbidden }

// IsNotFound reports an HTTP 404 or the ErrNotFound sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || StatusOf(err) == http.StatusNotFound
}

// IsRateLimited reports an HTTP 429.
func IsRateLimited(err error) bool { return StatusOf(err) == http.StatusTooManyRequests }

// IsServerError reports any HTTP 5xx.
func IsServerError(err error) bool { return StatusOf(err) >= 500 }

// IsNetwork reports a connectivity failure where no response was received.
func IsNetwork(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Network
}

// IsRecoverable reports whether a background refresh may retry err.
func IsRecoverable(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category() == Recoverable
	}
	return false
}
