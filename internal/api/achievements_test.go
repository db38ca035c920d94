package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinequest/cinequest-go/internal/apierr"
	"github.com/cinequest/cinequest-go/internal/types"
)

func TestGetUserAchievements_Success(t *testing.T) {
	t.Parallel()
	earned := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/achievements/users/u1/badges" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]types.Badge{{
			BadgeName:  "Sign Novice",
			BadgeType:  types.BadgeTypeSign,
			BadgeLevel: types.BadgeLevelBronze,
			EarnedAt:   &earned,
		}})
	}))
	defer srv.Close()

	badges, err := GetUserAchievements(context.Background(), srv.Client(), srv.URL, "u1")
	if err != nil || len(badges) != 1 || badges[0].BadgeName != "Sign Novice" {
		t.Fatalf("GetUserAchievements unexpected: got=%+v err=%v", badges, err)
	}
}

func TestGetUserAchievements_NewUserEmpty(t *testing.T) {
	t.Parallel()
	for _, handler := range []http.HandlerFunc{
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
		func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("null")) },
		func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("[]")) },
	} {
		srv := httptest.NewServer(handler)
		badges, err := GetUserAchievements(context.Background(), srv.Client(), srv.URL, "new-user")
		if err != nil {
			t.Fatalf("zero badges must not be an error: %v", err)
		}
		if badges == nil || len(badges) != 0 {
			t.Fatalf("expected empty slice, got %+v", badges)
		}
		srv.Close()
	}
}

func TestGetAllAchievements_MissingEndpointIsNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	badges, err := GetAllAchievements(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("missing catalog endpoint must not be an error: %v", err)
	}
	if badges != nil {
		t.Fatalf("expected nil for absent endpoint, got %+v", badges)
	}
}

func TestGetAllAchievements_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/achievements" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]types.Badge{
			{BadgeName: "Sign Novice", BadgeType: types.BadgeTypeSign, BadgeLevel: types.BadgeLevelBronze},
			{BadgeName: "Commentator", BadgeType: types.BadgeTypeRating, BadgeLevel: types.BadgeLevelBronze},
		})
	}))
	defer srv.Close()

	badges, err := GetAllAchievements(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(badges) != 2 {
		t.Fatalf("GetAllAchievements unexpected: got=%+v err=%v", badges, err)
	}
}

func TestGetUserAchievements_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := GetUserAchievements(context.Background(), srv.Client(), srv.URL, "u1"); !apierr.IsServerError(err) {
		t.Fatalf("expected 5xx classification, got %v", err)
	}
}
