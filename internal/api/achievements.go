package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cinequest/cinequest-go/internal/types"
)

// GetUserAchievements retrieves the badges a user has unlocked. A 404 or an
// empty list is a valid state for a new user with zero badges.
func GetUserAchievements(ctx context.Context, hc HTTPClient, baseURL, userID string) ([]types.Badge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/achievements/users/%s/badges", baseURL, userID)
	req, err := newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return []types.Badge{}, nil
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var badges []types.Badge
	if err := decodeInto(resp, &badges); err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []types.Badge{}
	}
	return badges, nil
}

// GetAllAchievements retrieves the backend's badge catalog. Returns nil
// without error when the backend does not expose the endpoint; callers fall
// back to the compiled-in catalog.
func GetAllAchievements(ctx context.Context, hc HTTPClient, baseURL string) ([]types.Badge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodGet, baseURL+"/api/achievements", nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return nil, nil
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var badges []types.Badge
	if err := decodeInto(resp, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}
