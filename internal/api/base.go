// Package api maps typed domain operations onto single HTTP calls against
// the CineQuest backend and unwraps their response envelopes. Every function
// takes the http client and base URL explicitly for dependency injection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cinequest/cinequest-go/internal/apierr"
)

// HTTPClient interface for dependency injection.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// newRequest builds a JSON request. A nil body produces a bodyless request;
// bytes-backed bodies keep GetBody set so the transport can replay them.
func newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	} else {
		var payload []byte
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do dispatches the request and classifies failures. Errors already
// classified by the transport (refresh failures) pass through; anything
// else without a response is a network error.
func do(hc HTTPClient, req *http.Request) (*http.Response, error) {
	resp, err := hc.Do(req)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apierr.FromTransport(req, err)
	}
	return resp, nil
}

// expect closes the response and returns a classified error unless the
// status matches one of want.
func expect(req *http.Request, resp *http.Response, want ...int) error {
	for _, w := range want {
		if resp.StatusCode == w {
			return nil
		}
	}
	defer resp.Body.Close()
	return apierr.FromResponse(req, resp)
}

// decodeInto decodes the response body into v and closes it.
func decodeInto(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// drain closes a response whose body carries nothing the caller needs.
func drain(resp *http.Response) {
	_ = resp.Body.Close()
}
