package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinequest/cinequest-go/internal/session"
	"github.com/cinequest/cinequest-go/internal/types"
)

func newClient(store session.Store, refresh RefreshFunc, onFailure func()) *http.Client {
	var r *Refresher
	if refresh != nil {
		r = &Refresher{Store: store, Refresh: refresh, OnFailure: onFailure}
	}
	return &http.Client{
		Transport: &RetryTransport{
			Base:      &AuthTransport{Store: store},
			Refresher: r,
		},
	}
}

func TestAuthTransport_AttachesExactToken(t *testing.T) {
	t.Parallel()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := session.NewMemStore()
	if err := store.SetSession(types.Session{AccessToken: "abc"}); err != nil {
		t.Fatal(err)
	}
	hc := newClient(store, nil, nil)
	resp, err := hc.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if got != "Bearer abc" {
		t.Fatalf("Authorization = %q, want %q", got, "Bearer abc")
	}
}

func TestAuthTransport_NoTokenNoHeader(t *testing.T) {
	t.Parallel()
	var got string
	var hasRequestID bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		hasRequestID = r.Header.Get("X-Request-Id") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	hc := newClient(session.NewMemStore(), nil, nil)
	resp, err := hc.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if got != "" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
	if !hasRequestID {
		t.Fatal("X-Request-Id not attached")
	}
}

func TestRetryTransport_ExpiredTokenRecovery(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			if r.Header.Get("Authorization") != "Bearer stale" {
				t.Errorf("first call auth = %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("Authorization") != "Bearer xyz" {
			t.Errorf("retry auth = %q, want Bearer xyz", r.Header.Get("Authorization"))
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	store := session.NewMemStore()
	if err := store.SetSession(types.Session{AccessToken: "stale", RefreshToken: "def"}); err != nil {
		t.Fatal(err)
	}
	var refreshes int32
	hc := newClient(store, func(ctx context.Context, rt string) (string, error) {
		atomic.AddInt32(&refreshes, 1)
		if rt != "def" {
			t.Errorf("refresh token = %q, want def", rt)
		}
		return "xyz", nil
	}, nil)

	resp, err := hc.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("caller saw status %d body %q; the intermediate 401 leaked", resp.StatusCode, body)
	}
	if atomic.LoadInt32(&refreshes) != 1 {
		t.Fatalf("refresh called %d times, want 1", refreshes)
	}
	if store.AccessToken() != "xyz" {
		t.Fatalf("refreshed token not persisted, store has %q", store.AccessToken())
	}
}

func TestRetryTransport_SecondUnauthorizedIsTerminal(t *testing.T) {
	t.Parallel()
	var calls, refreshes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemStore()
	if err := store.SetSession(types.Session{AccessToken: "stale", RefreshToken: "def"}); err != nil {
		t.Fatal(err)
	}
	hc := newClient(store, func(context.Context, string) (string, error) {
		atomic.AddInt32(&refreshes, 1)
		return "fresh", nil
	}, nil)

	resp, err := hc.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want terminal 401", resp.StatusCode)
	}
	if atomic.LoadInt32(&refreshes) != 1 {
		t.Fatalf("refresh called %d times, want exactly 1", refreshes)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("backend saw %d calls, want 2 (original + one retry)", calls)
	}
}

func TestRetryTransport_RefreshFailureClearsSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemStore()
	if err := store.SetSession(types.Session{AccessToken: "stale", RefreshToken: "def"}); err != nil {
		t.Fatal(err)
	}
	var loggedOut bool
	hc := newClient(store, func(context.Context, string) (string, error) {
		return "", fmt.Errorf("refresh token revoked")
	}, func() { loggedOut = true })

	if _, err := hc.Get(srv.URL); err == nil {
		t.Fatal("expected the refresh error to propagate")
	}
	if store.IsAuthenticated() {
		t.Fatal("session not cleared after refresh failure")
	}
	if !loggedOut {
		t.Fatal("logout hook not invoked")
	}
}

func TestRetryTransport_NoRefreshTokenIsTerminal(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := session.NewMemStore()
	if err := store.SetSession(types.Session{AccessToken: "stale"}); err != nil {
		t.Fatal(err)
	}
	hc := newClient(store, func(context.Context, string) (string, error) {
		t.Error("refresh endpoint must not be called without a refresh token")
		return "", nil
	}, nil)

	if _, err := hc.Get(srv.URL); err == nil {
		t.Fatal("expected error when no refresh token is available")
	}
	if store.IsAuthenticated() {
		t.Fatal("session should be cleared")
	}
}

func TestRetryTransport_OtherStatusesNotRetried(t *testing.T) {
	t.Parallel()
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests, http.StatusInternalServerError} {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(status)
		}))
		store := session.NewMemStore()
		_ = store.SetSession(types.Session{AccessToken: "abc", RefreshToken: "def"})
		hc := newClient(store, func(context.Context, string) (string, error) {
			t.Errorf("refresh triggered for status %d", status)
			return "", nil
		}, nil)

		resp, err := hc.Get(srv.URL)
		if err != nil {
			t.Fatalf("status %d: %v", status, err)
		}
		resp.Body.Close()
		if resp.StatusCode != status {
			t.Fatalf("status = %d, want %d passed through", resp.StatusCode, status)
		}
		if atomic.LoadInt32(&calls) != 1 {
			t.Fatalf("status %d retried (%d calls)", status, calls)
		}
		srv.Close()
	}
}

func TestRetryTransport_ReplaysRequestBody(t *testing.T) {
	t.Parallel()
	var bodies []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := session.NewMemStore()
	_ = store.SetSession(types.Session{AccessToken: "stale", RefreshToken: "def"})
	hc := newClient(store, func(context.Context, string) (string, error) { return "fresh", nil }, nil)

	resp, err := hc.Post(srv.URL, "application/json", strings.NewReader(`{"movieId":550}`))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resp.Body.Close()
	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Fatalf("retry did not replay identical body: %q", bodies)
	}
}

func TestRefresher_CoalescesConcurrentRefreshes(t *testing.T) {
	t.Parallel()
	store := session.NewMemStore()
	_ = store.SetSession(types.Session{AccessToken: "stale", RefreshToken: "def"})

	var refreshes int32
	r := &Refresher{
		Store: store,
		Refresh: func(context.Context, string) (string, error) {
			atomic.AddInt32(&refreshes, 1)
			time.Sleep(50 * time.Millisecond)
			return "fresh", nil
		},
	}

	const waiters = 5
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, waiters)
	tokens := make([]string, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i], errs[i] = r.AccessToken(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	if n := atomic.LoadInt32(&refreshes); n != 1 {
		t.Fatalf("identity endpoint called %d times for a concurrent burst, want 1", n)
	}
	for i := 0; i < waiters; i++ {
		if errs[i] != nil || tokens[i] != "fresh" {
			t.Fatalf("waiter %d: token=%q err=%v", i, tokens[i], errs[i])
		}
	}
}
