package apierr

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// backendMessage is the error envelope the backend uses for non-2xx
// responses. Both spellings appear across services.
type backendMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FromResponse builds a classified error from a non-2xx response. It reads
// and discards the body; callers must not use resp.Body afterwards.
func FromResponse(req *http.Request, resp *http.Response) *Error {
	msg := ""
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var env backendMessage
		if json.Unmarshal(body, &env) == nil {
			if env.Message != "" {
				msg = env.Message
			} else {
				msg = env.Error
			}
		}
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
	}
	return &Error{
		Status:  resp.StatusCode,
		Message: msg,
		Method:  req.Method,
		URL:     req.URL.String(),
	}
}

// FromTransport builds a classified network error for requests that never
// produced a response (DNS failure, timeout, connection refused).
func FromTransport(req *http.Request, err error) *Error {
	return &Error{
		Method:  req.Method,
		URL:     req.URL.String(),
		Network: true,
		Err:     err,
	}
}
