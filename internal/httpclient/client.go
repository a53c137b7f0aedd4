// Package httpclient builds the HTTP client shared by every upstream call.
package httpclient

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// MaxBodyBytes caps how much of an upstream response body is read.
const MaxBodyBytes = 4 << 20

// New returns a client with a hard per-request timeout and full certificate and
// hostname verification. A nil limiter disables outbound rate limiting.
func New(timeout time.Duration, limiter *rate.Limiter) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	var rt http.RoundTripper = transport
	if limiter != nil {
		rt = &limitedTransport{next: transport, limiter: limiter}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// NewLimiter returns a token bucket allowing perSecond requests with the given burst.
// A non-positive rate returns nil.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// ReadBody reads at most MaxBodyBytes from r and fails when the body is larger.
func ReadBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodyBytes {
		return nil, errors.Errorf("response body exceeds %d bytes", MaxBodyBytes)
	}
	return body, nil
}

type limitedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
