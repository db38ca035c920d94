package cinequest

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cinequest/cinequest-go/internal/badges"
	"github.com/cinequest/cinequest-go/internal/session"
)

// Option customizes Client construction.
type Option func(*Client) error

// WithHTTPTimeout sets the per-request timeout for all backend calls.
// Default 30s.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPTransport swaps the base RoundTripper under the auth/refresh
// pipeline. Used by tests to point at an httptest server transport.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return fmt.Errorf("transport cannot be nil")
		}
		c.baseTransport = rt
		return nil
	}
}

// WithDebugLogging dumps each request and response at debug level.
// Also enabled by CINEQUEST_DEBUG=true or DEBUG=true.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}

// WithStaleness sets how long a cached read stays fresh. Default 5m.
func WithStaleness(ttl time.Duration) Option {
	return func(c *Client) error {
		if ttl <= 0 {
			return fmt.Errorf("staleness ttl must be positive, got %v", ttl)
		}
		c.staleTTL = ttl
		return nil
	}
}

// WithSessionStore replaces the session store. Tests use an in-memory
// store via NewMemSessionStore.
func WithSessionStore(s session.Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("session store cannot be nil")
		}
		c.store = s
		return nil
	}
}

// WithSessionFile sets the path of the persisted session file. Ignored
// when WithSessionStore is also given.
func WithSessionFile(path string) Option {
	return func(c *Client) error {
		c.sessionFile = path
		return nil
	}
}

// WithShownBadgesDir sets where delivered badge notifications are
// recorded.
func WithShownBadgesDir(dir string) Option {
	return func(c *Client) error {
		tracker, err := badges.NewShownTracker(dir)
		if err != nil {
			return err
		}
		c.shown = tracker
		return nil
	}
}

// WithOnSessionExpired installs a hook invoked when a token refresh fails
// and the session is cleared. The CLI uses it to prompt for login.
func WithOnSessionExpired(fn func()) Option {
	return func(c *Client) error {
		c.onSessionExpired = fn
		return nil
	}
}

// NewMemSessionStore returns a process-local session store.
func NewMemSessionStore() session.Store { return session.NewMemStore() }

func debugLoggingRequested() bool {
	return os.Getenv("CINEQUEST_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
