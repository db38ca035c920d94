package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client displays.
// Parsed WITHOUT signature verification; the backend is the authority, so
// these values are for UI convenience (greeting, expiry hint) only and
// must never gate an authorization decision.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	ExpiresAt time.Time
}

// ParseClaims peeks at a JWT access token's registered and common identity
// claims. Returns an error for tokens that are not structurally JWTs.
func ParseClaims(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}

	c := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if v, ok := mc["preferred_username"].(string); ok {
		c.Username = v
	} else if v, ok := mc["username"].(string); ok {
		c.Username = v
	}
	if v, ok := mc["email"].(string); ok {
		c.Email = v
	}
	return c, nil
}
