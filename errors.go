package cinequest

import (
	"github.com/cinequest/cinequest-go/internal/apierr"
	"github.com/cinequest/cinequest-go/internal/session"
)

// Re-exported sentinels and classifiers so callers need only this
// package to branch on failures.
var (
	// ErrNotFound wraps deletes of ratings that do not exist.
	ErrNotFound = apierr.ErrNotFound
	// ErrNoSession is returned when an operation needs a session and none
	// is stored.
	ErrNoSession = session.ErrNoSession

	// StatusOf extracts the HTTP status from a backend error, 0 otherwise.
	StatusOf = apierr.StatusOf

	IsUnauthorized = apierr.IsUnauthorized
	IsForbidden    = apierr.IsForbidden
	IsNotFound     = apierr.IsNotFound
	IsRateLimited  = apierr.IsRateLimited
	IsServerError  = apierr.IsServerError
	IsNetwork      = apierr.IsNetwork

	// IsRecoverable reports whether a retry of the same call could
	// plausibly succeed (server errors and network failures).
	IsRecoverable = apierr.IsRecoverable
)

// APIError is the classified failure returned for non-2xx responses and
// transport-level faults.
type APIError = apierr.Error
