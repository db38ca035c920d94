package apierr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func respWithBody(status int, body string) (*http.Request, *http.Response) {
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/api/ratings", nil)
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	return req, resp
}

func TestFromResponse_BackendMessage(t *testing.T) {
	t.Parallel()
	req, resp := respWithBody(400, `{"message":"score out of range"}`)
	e := FromResponse(req, resp)
	if e.Status != 400 || e.Message != "score out of range" {
		t.Fatalf("unexpected error: %+v", e)
	}
	if e.Category() != Irrecoverable {
		t.Fatalf("400 should be irrecoverable")
	}
}

func TestFromResponse_PlainBody(t *testing.T) {
	t.Parallel()
	req, resp := respWithBody(500, "boom")
	e := FromResponse(req, resp)
	if e.Message != "boom" {
		t.Fatalf("plain body not captured: %+v", e)
	}
	if !IsServerError(e) || e.Category() != Recoverable {
		t.Fatalf("5xx classification wrong: %+v", e)
	}
}

func TestFromTransport(t *testing.T) {
	t.Parallel()
	req, _ := http.NewRequest(http.MethodGet, "http://api.test/api/movies/popular", nil)
	e := FromTransport(req, context.DeadlineExceeded)
	if !IsNetwork(e) || e.Status != 0 {
		t.Fatalf("network classification wrong: %+v", e)
	}
	if !errors.Is(e, context.DeadlineExceeded) {
		t.Fatal("underlying error not wrapped")
	}
	if !IsRecoverable(e) {
		t.Fatal("network errors are recoverable")
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		check  func(error) bool
	}{
		{401, IsUnauthorized},
		{403, IsForbidden},
		{404, IsNotFound},
		{429, IsRateLimited},
		{503, IsServerError},
	}
	for _, c := range cases {
		req, resp := respWithBody(c.status, "")
		if e := FromResponse(req, resp); !c.check(e) {
			t.Fatalf("helper failed for status %d", c.status)
		}
	}
	if !IsNotFound(ErrNotFound) {
		t.Fatal("sentinel not recognised")
	}
	if IsUnauthorized(errors.New("other")) {
		t.Fatal("unrelated error misclassified")
	}
}

func TestRateLimitedNotRecoverable(t *testing.T) {
	t.Parallel()
	req, resp := respWithBody(429, "")
	if IsRecoverable(FromResponse(req, resp)) {
		t.Fatal("429 must not be retried by background refresh")
	}
}
