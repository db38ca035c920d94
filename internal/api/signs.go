package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cinequest/cinequest-go/internal/types"
)

// CheckIn records today's check-in. The backend keys records by
// (userId, calendar day) and returns the existing record when the user has
// already checked in, so the call is idempotent per day.
func CheckIn(ctx context.Context, hc HTTPClient, baseURL string, r types.CheckInRequest) (*types.SignInRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(r.UserID); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodPost, baseURL+"/api/signs", r)
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if err := expect(req, resp, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}
	var rec types.SignInRecord
	if err := decodeInto(resp, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetUserSignHistory retrieves a user's check-in summary. An empty history
// (new user) is a valid state, not an error.
func GetUserSignHistory(ctx context.Context, hc HTTPClient, baseURL, userID string) (*types.SignHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/signs/user/%s", baseURL, userID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := do(hc, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return &types.SignHistory{}, nil
	}
	if err := expect(req, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var hist types.SignHistory
	if err := decodeInto(resp, &hist); err != nil {
		return nil, err
	}
	return &hist, nil
}
