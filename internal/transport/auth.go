// Package transport implements the outbound request pipeline: bearer
// credential attachment, request correlation IDs, and the one-shot
// refresh-and-retry handling of expired tokens.
package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cinequest/cinequest-go/internal/session"
)

// AuthTransport wraps an http.RoundTripper so every request carries
// Authorization: Bearer <token> when a token is present, plus an
// X-Request-Id for correlation. Requests are cloned before mutation.
type AuthTransport struct {
	Base  http.RoundTripper
	Store session.Store
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if cloned.Header.Get("X-Request-Id") == "" {
		cloned.Header.Set("X-Request-Id", uuid.NewString())
	}
	if tok := t.Store.AccessToken(); tok != "" {
		cloned.Header.Set("Authorization", "Bearer "+tok)
	}
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("api request")
	return t.base().RoundTrip(cloned)
}
