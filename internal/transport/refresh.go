package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/cinequest/cinequest-go/internal/apierr"
	"github.com/cinequest/cinequest-go/internal/session"
)

// RefreshFunc exchanges a refresh token for a new access token by calling
// the identity endpoint directly, bypassing the retrying transport.
type RefreshFunc func(ctx context.Context, refreshToken string) (string, error)

// Refresher coalesces concurrent token refreshes: a burst of 401s produces
// exactly one call against the identity endpoint, and every waiter shares
// its outcome. On refresh failure the session is cleared and the OnFailure
// hook (the redirect-to-login analog) runs once.
type Refresher struct {
	Store     session.Store
	Refresh   RefreshFunc
	OnFailure func()

	mu       sync.Mutex
	inflight *refreshCall
}

type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// AccessToken returns a fresh access token, joining an in-flight refresh if
// one exists. The new token is persisted before any waiter is released, so
// no later request carries the stale token.
func (r *Refresher) AccessToken(ctx context.Context) (string, error) {
	r.mu.Lock()
	if c := r.inflight; c != nil {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.token, c.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c := &refreshCall{done: make(chan struct{})}
	r.inflight = c
	r.mu.Unlock()

	c.token, c.err = r.refresh(ctx)
	close(c.done)

	r.mu.Lock()
	r.inflight = nil
	r.mu.Unlock()
	return c.token, c.err
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	refreshTotal.WithLabelValues(outcomeAttempt).Inc()

	sess := r.Store.Session()
	if sess == nil || sess.RefreshToken == "" {
		r.fail()
		return "", fmt.Errorf("no refresh token available")
	}
	token, err := r.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("token refresh failed")
		r.fail()
		refreshTotal.WithLabelValues(outcomeFailure).Inc()
		return "", err
	}
	if err := r.Store.SetAccessToken(token); err != nil {
		r.fail()
		refreshTotal.WithLabelValues(outcomeFailure).Inc()
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	refreshTotal.WithLabelValues(outcomeSuccess).Inc()
	return token, nil
}

func (r *Refresher) fail() {
	_ = r.Store.Clear()
	if r.OnFailure != nil {
		r.OnFailure()
	}
}

// RetryTransport sits above AuthTransport and implements the 401 handling
// state machine. A request that comes back 401 triggers at most one token
// refresh followed by one re-issue; the attempt counter is threaded through
// roundTrip parameters rather than stashed on the request, so the guarantee
// holds per original call. A 401 on the retried request passes through to
// the caller as a terminal failure. No other status is ever retried here.
type RetryTransport struct {
	Base      http.RoundTripper
	Refresher *Refresher
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.roundTrip(req, 0)
}

func (t *RetryTransport) roundTrip(req *http.Request, attempt int) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	requestsTotal.WithLabelValues(req.Method, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusUnauthorized || attempt > 0 || t.Refresher == nil {
		return resp, nil
	}

	// Expired credential: refresh once and re-issue transparently.
	resp.Body.Close()
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("401 received, refreshing token")

	if _, err := t.Refresher.AccessToken(req.Context()); err != nil {
		return nil, &apierr.Error{
			Status:  http.StatusUnauthorized,
			Message: "token refresh failed",
			Method:  req.Method,
			URL:     req.URL.String(),
			Err:     err,
		}
	}

	retry, err := replayableClone(req)
	if err != nil {
		return nil, err
	}
	return t.roundTrip(retry, attempt+1)
}

// replayableClone rebuilds the request body for a re-issue. Requests built
// by the resource clients carry GetBody (bytes-backed), so retries re-send
// the identical payload.
func replayableClone(req *http.Request) (*http.Request, error) {
	cloned := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return cloned, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rebuild request body for retry: %w", err)
	}
	cloned.Body = body
	return cloned, nil
}

func statusClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
