package api

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedDoer throttles outbound requests so bursts of UI activity never
// hammer the backend. Waiting respects the request context.
type RateLimitedDoer struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewRateLimitedDoer(timeout time.Duration, rps float64) *RateLimitedDoer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if rps <= 0 {
		rps = 10
	}
	return &RateLimitedDoer{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (d *RateLimitedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return d.client.Do(req)
}

var _ Doer = (*RateLimitedDoer)(nil)
