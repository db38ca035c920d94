package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cinequest/cinequest-go/internal/types"
)

// Login exchanges username/password for an access+refresh token pair.
func Login(ctx context.Context, hc HTTPClient, baseURL, username, password string) (*types.LoginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	req, err := newRequest(ctx, http.MethodPost, baseURL+"/api/auth/login", types.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var lr types.LoginResponse
	if err := decodeInto(resp, &lr); err != nil {
		return nil, err
	}
	if lr.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}
	return &lr, nil
}

// Refresh exchanges a refresh token for a new access token. Callers must
// dispatch it over a non-retrying client; routing it through the refresh
// transport would recurse.
func Refresh(ctx context.Context, hc HTTPClient, baseURL, refreshToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", fmt.Errorf("refresh token is required")
	}
	req, err := newRequest(ctx, http.MethodPost, baseURL+"/api/auth/refresh", types.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", err
	}
	resp, err := do(hc, req)
	if err != nil {
		return "", err
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return "", err
	}
	var rr types.RefreshResponse
	if err := decodeInto(resp, &rr); err != nil {
		return "", err
	}
	if rr.AccessToken == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return rr.AccessToken, nil
}

// Logout invalidates the session server-side.
func Logout(ctx context.Context, hc HTTPClient, baseURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req, err := newRequest(ctx, http.MethodPost, baseURL+"/api/auth/logout", nil)
	if err != nil {
		return err
	}
	resp, err := do(hc, req)
	if err != nil {
		return err
	}
	if err := expect(req, resp, http.StatusOK, http.StatusNoContent); err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Me fetches the current user profile.
func Me(ctx context.Context, hc HTTPClient, baseURL string) (*types.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodGet, baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var user types.UserProfile
	if err := decodeInto(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
