package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinequest/cinequest-go/internal/types"
)

func TestCheckIn_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/signs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body types.CheckInRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.UserID != "u1" {
			t.Errorf("userId = %q", body.UserID)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.SignInRecord{ID: 7, UserID: "u1", SignDate: "2026-08-31", TotalSignCount: 12})
	}))
	defer srv.Close()

	rec, err := CheckIn(context.Background(), srv.Client(), srv.URL, types.CheckInRequest{UserID: "u1"})
	if err != nil || rec.TotalSignCount != 12 || rec.SignDate != "2026-08-31" {
		t.Fatalf("CheckIn unexpected: got=%+v err=%v", rec, err)
	}
}

func TestCheckIn_MissingUser(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	if _, err := CheckIn(context.Background(), srv.Client(), srv.URL, types.CheckInRequest{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetUserSignHistory_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/signs/user/u1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(types.SignHistory{TodaySigned: true, ConsecutiveDays: 3, TotalDays: 12})
	}))
	defer srv.Close()

	hist, err := GetUserSignHistory(context.Background(), srv.Client(), srv.URL, "u1")
	if err != nil || !hist.TodaySigned || hist.ConsecutiveDays != 3 {
		t.Fatalf("GetUserSignHistory unexpected: got=%+v err=%v", hist, err)
	}
}

func TestGetUserSignHistory_NewUserEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	hist, err := GetUserSignHistory(context.Background(), srv.Client(), srv.URL, "new-user")
	if err != nil {
		t.Fatalf("empty history must not be an error: %v", err)
	}
	if hist.TodaySigned || hist.TotalDays != 0 {
		t.Fatalf("expected zero history, got %+v", hist)
	}
}
