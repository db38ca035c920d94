package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cinequest/cinequest-go/internal/apierr"
	"github.com/cinequest/cinequest-go/internal/types"
)

// GetUserMovieRating looks up one user's rating of one movie. A backend 404
// means "no rating yet" and returns (nil, nil); every other non-2xx status
// is an error. This is the only documented 404-as-null normalization.
func GetUserMovieRating(ctx context.Context, hc HTTPClient, baseURL, userID string, movieID int) (*types.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := types.ValidateMovieID(movieID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("movieId", fmt.Sprint(movieID))
	req, err := newRequest(ctx, http.MethodGet, baseURL+"/api/ratings?"+q.Encode(), nil)
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
	var rating types.Rating
	if err := decodeInto(resp, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetUserRatings lists a user's ratings. Pages are 0-based with the Spring
// envelope the rating service uses.
func GetUserRatings(ctx context.Context, hc HTTPClient, baseURL, userID string, page, size int) (*types.RatingPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateUserID(userID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return getRatingPage(ctx, hc, baseURL+"/api/ratings/all?"+q.Encode())
}

// GetMovieRatings lists ratings for a movie.
func GetMovieRatings(ctx context.Context, hc HTTPClient, baseURL string, movieID, page, size int) (*types.RatingPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateMovieID(movieID); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/ratings/movie/%d?page=%d&size=%d", baseURL, movieID, page, size)
	return getRatingPage(ctx, hc, u)
}

func getRatingPage(ctx context.Context, hc HTTPClient, u string) (*types.RatingPage, error) {
	req, err := newRequest(ctx, http.MethodGet, u, nil)
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
	var page types.RatingPage
	if err := decodeInto(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMovieRatingStats retrieves the score aggregate for a movie.
func GetMovieRatingStats(ctx context.Context, hc HTTPClient, baseURL string, movieID int) (*types.RatingStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateMovieID(movieID); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/ratings/movie/%d/stats", baseURL, movieID), nil)
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
	var stats types.RatingStats
	if err := decodeInto(resp, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SubmitRating creates a new rating. The caller decides submit vs update
// based on whether a rating already exists for the (user, movie) pair.
func SubmitRating(ctx context.Context, hc HTTPClient, baseURL string, r types.RatingRequest) (*types.Rating, error) {
	return writeRating(ctx, hc, baseURL, http.MethodPost, r)
}

// UpdateRating replaces an existing rating for the pair.
func UpdateRating(ctx context.Context, hc HTTPClient, baseURL string, r types.RatingRequest) (*types.Rating, error) {
	return writeRating(ctx, hc, baseURL, http.MethodPut, r)
}

func writeRating(ctx context.Context, hc HTTPClient, baseURL, method string, r types.RatingRequest) (*types.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateRatingRequest(r); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, method, baseURL+"/api/ratings", r)
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
	var rating types.Rating
	if err := decodeInto(resp, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// DeleteRating removes the caller's rating for a movie. Deleting a rating
// that does not exist surfaces the backend's 404 as ErrNotFound.
func DeleteRating(ctx context.Context, hc HTTPClient, baseURL string, movieID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateMovieID(movieID); err != nil {
		return err
	}
	req, err := newRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/api/ratings?movieId=%d", baseURL, movieID), nil)
	if err != nil {
		return err
	}
	resp, err := do(hc, req)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return fmt.Errorf("delete rating for movie %d: %w", movieID, apierr.ErrNotFound)
	}
	if err := expect(req, resp, http.StatusOK, http.StatusNoContent); err != nil {
		return err
	}
	drain(resp)
	return nil
}
