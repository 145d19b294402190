package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobdeck/internal/domain"
)

// maxResponseBytes caps how much of any response body is read. Job listings
// are small; anything past this is a misbehaving server.
const maxResponseBytes = 1 << 20

// Doer is the transport seam. Production wires a rate-limited *http.Client,
// tests wire whatever they need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the job-board REST backend. It owns no session state;
// callers pass the bearer token into each authenticated call.
type Client struct {
	baseURL string
	http    Doer
	log     zerolog.Logger
}

func New(baseURL string, d Doer, log zerolog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	if d == nil {
		d = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, http: d, log: log}, nil
}

// NewDefault builds a client over the standard rate-limited transport.
func NewDefault(baseURL string, timeout time.Duration, rps float64, log zerolog.Logger) (*Client, error) {
	return New(baseURL, NewRateLimitedDoer(timeout, rps), log)
}

// Health probes the backend. Useful before interactive flows.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil, "", nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, bearer string) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return nil, fmt.Errorf("api: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req, nil
}

// doJSON performs one round trip. Transport failures map to ErrNetwork,
// non-2xx statuses to an APIError, and an undecodable 2xx body to
// ErrMalformedResponse. Pass a nil out to ignore the body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, bearer string, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body, bearer)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed before a response arrived")
		return fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %s %s: reading body: %v", domain.ErrNetwork, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.apiError(resp.StatusCode, rb)
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Str("message", apiErr.Message).Msg("backend rejected request")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(rb)) == 0 {
		return nil
	}
	if err := json.Unmarshal(rb, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrMalformedResponse, method, path, err)
	}
	return nil
}
