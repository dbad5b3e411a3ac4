// Package httpx builds the HTTP clients used to reach Alma, FileMaker and
// Digital Data.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultTimeout  = 120 * time.Second
	DefaultRetryMax = 2
)

// Transport sets a User-Agent and retries replayable requests (GET or HEAD
// without a body) on transport errors and gateway responses.
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
	// RetryMax is the number of retries after the first attempt.
	RetryMax int
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}

		resp, err := base.RoundTrip(r)
		if err == nil {
			if attempt == max || !retryableStatus(resp.StatusCode) {
				return resp, nil
			}
			resp.Body.Close()
			slog.Debug("Retrying request", "url", req.URL.Redacted(), "status", resp.StatusCode, "attempt", attempt+1)
			continue
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
		slog.Debug("Retrying request", "url", req.URL.Redacted(), "err", err, "attempt", attempt+1)
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}

// NewClient returns a client with a total timeout and bounded retries. A zero
// timeout uses DefaultTimeout.
func NewClient(timeout time.Duration, retryMax int, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSHandshakeTimeout = 10 * time.Second

	return &http.Client{
		Transport: &Transport{
			Base:      base,
			UserAgent: userAgent,
			RetryMax:  retryMax,
		},
		Timeout: timeout,
	}
}
