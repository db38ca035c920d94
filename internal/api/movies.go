package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cinequest/cinequest-go/internal/types"
)

// GetPopularMovies retrieves one page of the popular-movie listing.
func GetPopularMovies(ctx context.Context, hc HTTPClient, baseURL string, page int) (*types.MoviePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePage(page); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/movies/popular?page=%d", baseURL, page)
	return getMoviePage(ctx, hc, u)
}

// SearchMovies searches the catalog by keyword.
func SearchMovies(ctx context.Context, hc HTTPClient, baseURL, query string, page int) (*types.MoviePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if err := types.ValidatePage(page); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", fmt.Sprint(page))
	return getMoviePage(ctx, hc, baseURL+"/api/movies/search?"+q.Encode())
}

func getMoviePage(ctx context.Context, hc HTTPClient, u string) (*types.MoviePage, error) {
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
	var page types.MoviePage
	if err := decodeInto(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMovieDetails retrieves a single movie.
func GetMovieDetails(ctx context.Context, hc HTTPClient, baseURL string, movieID int) (*types.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateMovieID(movieID); err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/api/movies/%d", baseURL, movieID), nil)
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
	var movie types.Movie
	if err := decodeInto(resp, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}
