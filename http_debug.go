package cinequest

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps full requests and responses at debug level.
// Bodies are included; do not enable against production credentials you
// are not willing to see in logs.
type debugTransport struct {
	base http.RoundTripper
}

func (d *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("dump", string(dump)).Msg("http request")
	}
	resp, err := d.base.RoundTrip(req)
	if err != nil {
		log.Debug().Err(err).Str("url", req.URL.String()).Msg("http transport error")
		return nil, err
	}
	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("dump", string(dump)).Msg("http response")
	}
	return resp, nil
}
