// Package cinequest is a client SDK for the CineQuest backend: movie
// browsing and search, star ratings, daily check-ins and achievement
// badges, with bearer-token authentication handled transparently.
package cinequest

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cinequest/cinequest-go/internal/api"
	"github.com/cinequest/cinequest-go/internal/badges"
	"github.com/cinequest/cinequest-go/internal/cache"
	"github.com/cinequest/cinequest-go/internal/session"
	"github.com/cinequest/cinequest-go/internal/transport"
	"github.com/cinequest/cinequest-go/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client // full pipeline: refresh-retry over auth over base
	plain   *http.Client // bare dispatch for the refresh call itself
	store   session.Store
	cache   *cache.Cache
	shown   *badges.ShownTracker

	staleTTL         time.Duration
	sessionFile      string
	onSessionExpired func()
	baseTransport    http.RoundTripper
	timeout          time.Duration
	debug            bool

	closedOnce uint32
}

// New constructs a Client for the backend at baseURL. The session store
// defaults to a file under the user config dir; see the options for
// overrides.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:  baseURL,
		timeout:  30 * time.Second,
		staleTTL: cache.DefaultTTL,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		fs, err := session.NewFileStore(c.sessionFile)
		if err != nil {
			return nil, err
		}
		c.store = fs
	}
	if c.shown == nil {
		tracker, err := badges.NewShownTracker("")
		if err != nil {
			return nil, err
		}
		c.shown = tracker
	}
	c.cache = cache.New(c.staleTTL)

	base := c.baseTransport
	if base == nil {
		base = http.DefaultTransport
	}
	if c.debug {
		base = &debugTransport{base: base}
	}

	c.plain = &http.Client{Timeout: c.timeout, Transport: base}

	refresher := &transport.Refresher{
		Store: c.store,
		Refresh: func(ctx context.Context, refreshToken string) (string, error) {
			return api.Refresh(ctx, c.plain, c.baseURL, refreshToken)
		},
		OnFailure: func() {
			if c.onSessionExpired != nil {
				c.onSessionExpired()
				return
			}
			log.Warn().Msg("session expired; login required")
		},
	}
	c.http = &http.Client{
		Timeout: c.timeout,
		Transport: &transport.RetryTransport{
			Base:      &transport.AuthTransport{Base: base, Store: c.store},
			Refresher: refresher,
		},
	}
	return c, nil
}

// NewFromEnv constructs a Client from CINEQUEST_* environment variables.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	merged := []Option{
		WithHTTPTimeout(cfg.Timeout),
		WithStaleness(cfg.StaleTTL),
	}
	if cfg.SessionFile != "" {
		merged = append(merged, WithSessionFile(cfg.SessionFile))
	}
	merged = append(merged, opts...)
	return New(cfg.BaseURL, merged...)
}

// Close waits for background cache refreshes to settle. Safe to call
// multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.cache.Close()
	return nil
}

// getCached routes a read through the request cache with a typed result.
func getCached[T any](ctx context.Context, c *Client, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.cache.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// --------------------------------------------------------------------
// Auth and session
// --------------------------------------------------------------------

// Login exchanges credentials for a session and persists it (token pair
// plus profile, all-or-none).
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	lr, err := api.Login(ctx, c.plain, c.baseURL, username, password)
	if err != nil {
		return nil, err
	}
	sess := types.Session{
		AccessToken:  lr.AccessToken,
		RefreshToken: lr.RefreshToken,
		User:         lr.User,
	}
	if err := c.store.SetSession(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &sess, nil
}

// Logout invalidates the session server-side and always clears local
// state, even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := api.Logout(ctx, c.http, c.baseURL)
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	c.cache.Invalidate("ratings")
	c.cache.Invalidate("achievements")
	c.cache.Invalidate("signs")
	return err
}

// CurrentUser fetches the profile of the authenticated user and refreshes
// the cached copy in the session.
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	user, err := api.Me(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, err
	}
	if sess := c.store.Session(); sess != nil {
		sess.User = user
		if err := c.store.SetSession(*sess); err != nil {
			return nil, fmt.Errorf("persist profile: %w", err)
		}
	}
	return user, nil
}

// IsAuthenticated reports whether an access token is present. Presence
// only; an expired token is discovered reactively via a 401.
func (c *Client) IsAuthenticated() bool { return c.store.IsAuthenticated() }

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session { return c.store.Session() }

// Claims peeks at the current access token's identity claims for display
// purposes. Returns an error when no session exists.
func (c *Client) Claims() (*Claims, error) {
	tok := c.store.AccessToken()
	if tok == "" {
		return nil, session.ErrNoSession
	}
	return session.ParseClaims(tok)
}

// --------------------------------------------------------------------
// Movies
// --------------------------------------------------------------------

// GetPopularMovies retrieves one page of the popular listing.
func (c *Client) GetPopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	key := cache.Key("movies", "popular", fmt.Sprint(page))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.MoviePage, error) {
		return api.GetPopularMovies(ctx, c.http, c.baseURL, page)
	})
}

// SearchMovies searches the catalog by keyword.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviePage, error) {
	key := cache.Key("movies", "search", query, fmt.Sprint(page))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.MoviePage, error) {
		return api.SearchMovies(ctx, c.http, c.baseURL, query, page)
	})
}

// GetMovieDetails retrieves a single movie.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*Movie, error) {
	key := cache.Key("movies", "detail", fmt.Sprint(movieID))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.Movie, error) {
		return api.GetMovieDetails(ctx, c.http, c.baseURL, movieID)
	})
}

// --------------------------------------------------------------------
// Ratings
// --------------------------------------------------------------------

// invalidateAfterRatingMutation drops every cached rating and achievement
// entry. Broad on purpose: badge counts move with rating counts, and a
// stale badge display is worse than an extra refetch.
func (c *Client) invalidateAfterRatingMutation() {
	c.cache.Invalidate("ratings")
	c.cache.Invalidate("achievements")
}

// GetUserMovieRating returns the user's rating for a movie, or nil when no
// rating exists yet.
func (c *Client) GetUserMovieRating(ctx context.Context, userID string, movieID int) (*Rating, error) {
	key := cache.Key("ratings", "pair", userID, fmt.Sprint(movieID))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.Rating, error) {
		return api.GetUserMovieRating(ctx, c.http, c.baseURL, userID, movieID)
	})
}

// GetUserRatings lists a user's ratings (0-based pages).
func (c *Client) GetUserRatings(ctx context.Context, userID string, page, size int) (*RatingPage, error) {
	key := cache.Key("ratings", "user", userID, fmt.Sprint(page), fmt.Sprint(size))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.RatingPage, error) {
		return api.GetUserRatings(ctx, c.http, c.baseURL, userID, page, size)
	})
}

// GetMovieRatings lists ratings for a movie.
func (c *Client) GetMovieRatings(ctx context.Context, movieID, page, size int) (*RatingPage, error) {
	key := cache.Key("ratings", "movie", fmt.Sprint(movieID), fmt.Sprint(page), fmt.Sprint(size))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.RatingPage, error) {
		return api.GetMovieRatings(ctx, c.http, c.baseURL, movieID, page, size)
	})
}

// GetMovieRatingStats retrieves the score aggregate for a movie.
func (c *Client) GetMovieRatingStats(ctx context.Context, movieID int) (*RatingStats, error) {
	key := cache.Key("ratings", "stats", fmt.Sprint(movieID))
	return getCached(ctx, c, key, func(ctx context.Context) (*types.RatingStats, error) {
		return api.GetMovieRatingStats(ctx, c.http, c.baseURL, movieID)
	})
}

// SubmitRating creates a new rating and invalidates dependent caches.
func (c *Client) SubmitRating(ctx context.Context, req RatingRequest) (*Rating, error) {
	rating, err := api.SubmitRating(ctx, c.http, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	c.invalidateAfterRatingMutation()
	return rating, nil
}

// UpdateRating replaces an existing rating and invalidates dependent
// caches.
func (c *Client) UpdateRating(ctx context.Context, req RatingRequest) (*Rating, error) {
	rating, err := api.UpdateRating(ctx, c.http, c.baseURL, req)
	if err != nil {
		return nil, err
	}
	c.invalidateAfterRatingMutation()
	return rating, nil
}

// SetRating submits or updates depending on whether a rating already
// exists for (userID, movie). The lookup is uncached so the decision is
// made against current state. Concurrent writers race at the backend;
// last write wins.
func (c *Client) SetRating(ctx context.Context, userID string, req RatingRequest) (*Rating, error) {
	existing, err := api.GetUserMovieRating(ctx, c.http, c.baseURL, userID, req.MovieID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return c.SubmitRating(ctx, req)
	}
	return c.UpdateRating(ctx, req)
}

// DeleteRating removes the caller's rating for a movie and invalidates
// dependent caches.
func (c *Client) DeleteRating(ctx context.Context, movieID int) error {
	if err := api.DeleteRating(ctx, c.http, c.baseURL, movieID); err != nil {
		return err
	}
	c.invalidateAfterRatingMutation()
	return nil
}

// --------------------------------------------------------------------
// Check-ins
// --------------------------------------------------------------------

// CheckIn records today's check-in and invalidates sign and achievement
// caches. Idempotent per calendar day at the backend.
func (c *Client) CheckIn(ctx context.Context, userID string) (*SignInRecord, error) {
	rec, err := api.CheckIn(ctx, c.http, c.baseURL, types.CheckInRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate("signs")
	c.cache.Invalidate("achievements")
	return rec, nil
}

// GetSignHistory retrieves a user's check-in summary.
func (c *Client) GetSignHistory(ctx context.Context, userID string) (*SignHistory, error) {
	key := cache.Key("signs", "user", userID)
	return getCached(ctx, c, key, func(ctx context.Context) (*types.SignHistory, error) {
		return api.GetUserSignHistory(ctx, c.http, c.baseURL, userID)
	})
}

// HasCheckedInToday reports whether the user already has a record for
// today, the signal the UI uses to suppress the check-in action.
func (c *Client) HasCheckedInToday(ctx context.Context, userID string) (bool, error) {
	hist, err := c.GetSignHistory(ctx, userID)
	if err != nil {
		return false, err
	}
	return hist.TodaySigned, nil
}

// --------------------------------------------------------------------
// Achievements
// --------------------------------------------------------------------

// GetUserAchievements retrieves the badges a user has unlocked. Empty is a
// valid state for a new user.
func (c *Client) GetUserAchievements(ctx context.Context, userID string) ([]Badge, error) {
	key := cache.Key("achievements", "user", userID)
	return getCached(ctx, c, key, func(ctx context.Context) ([]types.Badge, error) {
		return api.GetUserAchievements(ctx, c.http, c.baseURL, userID)
	})
}

// AllBadges returns the full badge catalog, preferring the backend's copy
// and falling back to the compiled-in catalog when the endpoint is absent
// or empty.
func (c *Client) AllBadges(ctx context.Context) ([]Badge, error) {
	key := cache.Key("achievements", "catalog")
	return getCached(ctx, c, key, func(ctx context.Context) ([]types.Badge, error) {
		remote, err := api.GetAllAchievements(ctx, c.http, c.baseURL)
		if err != nil {
			return nil, err
		}
		if len(remote) > 0 {
			return remote, nil
		}
		out := make([]types.Badge, 0, len(badges.Catalog))
		for _, e := range badges.Catalog {
			out = append(out, types.Badge{
				BadgeName:   e.BadgeName,
				BadgeType:   e.BadgeType,
				BadgeLevel:  e.BadgeLevel,
				Description: e.Description,
			})
		}
		return out, nil
	})
}

// BadgeStatuses overlays the user's unlocked badges onto the full static
// catalog, yielding one entry per possible badge.
func (c *Client) BadgeStatuses(ctx context.Context, userID string) ([]BadgeStatus, error) {
	unlocked, err := c.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return badges.Merge(unlocked), nil
}

// UnseenBadges returns unlocked badges whose notification has not been
// shown to this user yet.
func (c *Client) UnseenBadges(ctx context.Context, userID string) ([]Badge, error) {
	unlocked, err := c.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.shown.Unseen(userID, unlocked), nil
}

// MarkBadgesShown records badge notifications as delivered.
func (c *Client) MarkBadgesShown(userID string, badgeNames ...string) error {
	return c.shown.MarkShown(userID, badgeNames...)
}

// --------------------------------------------------------------------
// Cache control
// --------------------------------------------------------------------

// InvalidateCache drops cached entries under the given key prefix
// (e.g. "ratings", or "ratings","user",id). The next read refetches: the
// manual-retry escape hatch after an error.
func (c *Client) InvalidateCache(parts ...string) {
	c.cache.Invalidate(parts...)
}
