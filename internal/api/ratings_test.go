package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinequest/cinequest-go/internal/apierr"
	"github.com/cinequest/cinequest-go/internal/types"
)

func TestGetUserMovieRating_Found(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/ratings" || q.Get("userId") != "u1" || q.Get("movieId") != "550" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(types.Rating{ID: "r1", UserID: "u1", MovieID: 550, Score: 8.5})
	}))
	defer srv.Close()

	rating, err := GetUserMovieRating(context.Background(), srv.Client(), srv.URL, "u1", 550)
	if err != nil || rating == nil || rating.Score != 8.5 {
		t.Fatalf("GetUserMovieRating unexpected: got=%+v err=%v", rating, err)
	}
}

func TestGetUserMovieRating_NotFoundIsNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	rating, err := GetUserMovieRating(context.Background(), srv.Client(), srv.URL, "u1", 550)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if rating != nil {
		t.Fatalf("404 must yield nil rating, got %+v", rating)
	}
}

func TestGetUserMovieRating_OtherStatusIsError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := GetUserMovieRating(context.Background(), srv.Client(), srv.URL, "u1", 550); !apierr.IsForbidden(err) {
		t.Fatalf("expected 403 classification, got %v", err)
	}
}

func TestGetUserRatings_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/ratings/all" || q.Get("userId") != "u1" || q.Get("page") != "0" || q.Get("size") != "20" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(types.RatingPage{
			Content:       []types.Rating{{ID: "r1", MovieID: 550}},
			TotalElements: 1, TotalPages: 1, Size: 20,
		})
	}))
	defer srv.Close()

	page, err := GetUserRatings(context.Background(), srv.Client(), srv.URL, "u1", 0, 20)
	if err != nil || len(page.Content) != 1 || page.Content[0].MovieID != 550 {
		t.Fatalf("GetUserRatings unexpected: got=%+v err=%v", page, err)
	}
}

func TestGetMovieRatingStats_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ratings/movie/550/stats" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(types.RatingStats{MovieID: 550, AverageScore: 8.1, TotalRatings: 42})
	}))
	defer srv.Close()

	stats, err := GetMovieRatingStats(context.Background(), srv.Client(), srv.URL, 550)
	if err != nil || stats.TotalRatings != 42 {
		t.Fatalf("GetMovieRatingStats unexpected: got=%+v err=%v", stats, err)
	}
}

func TestSubmitAndUpdateRating(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body types.RatingRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.MovieID != 550 || body.Score != 9 {
			t.Errorf("unexpected body %+v", body)
		}
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
		case http.MethodPut:
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(types.Rating{ID: "r1", MovieID: 550, Score: 9})
	}))
	defer srv.Close()

	req := types.RatingRequest{MovieID: 550, Score: 9, Comment: "great"}
	if got, err := SubmitRating(context.Background(), srv.Client(), srv.URL, req); err != nil || got.ID != "r1" {
		t.Fatalf("SubmitRating unexpected: got=%+v err=%v", got, err)
	}
	if got, err := UpdateRating(context.Background(), srv.Client(), srv.URL, req); err != nil || got.ID != "r1" {
		t.Fatalf("UpdateRating unexpected: got=%+v err=%v", got, err)
	}
}

func TestWriteRating_InvalidScore(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	req := types.RatingRequest{MovieID: 550, Score: 9.25}
	if _, err := SubmitRating(context.Background(), srv.Client(), srv.URL, req); err == nil {
		t.Fatal("expected validation error for quarter-point score")
	}
}

func TestDeleteRating(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Query().Get("movieId") != "550" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := DeleteRating(context.Background(), srv.Client(), srv.URL, 550); err != nil {
		t.Fatalf("DeleteRating error: %v", err)
	}
}

func TestDeleteRating_Missing(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := DeleteRating(context.Background(), srv.Client(), srv.URL, 550)
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
