// Package lcu talks to the League Client Update API: a local HTTPS interface
// on a per-session port, authenticated with basic auth against a per-session
// token. Both are recovered from the client's own log file, see
// credentials.go.
package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"riftwatch/internal/metrics"
)

var (
	// ErrNotConnected marks calls made without a discovered session.
	ErrNotConnected = errors.New("league client is not connected")
	// ErrUnavailable marks every expected transport failure: connection
	// refused, timeout, non-2xx status, empty or malformed body. Callers
	// treat it as "unknown", never as "empty".
	ErrUnavailable = errors.New("control api unavailable")
)

// Credentials is the discovered (token, port) pair. The two fields are only
// ever set together; a zero Credentials means "not connected".
type Credentials struct {
	Token string
	Port  int
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return c.Token != "" && c.Port > 0
}

func (c Credentials) baseURL() string {
	return fmt.Sprintf("https://127.0.0.1:%d", c.Port)
}

// Client performs single HTTP calls against the control API. It holds no
// session state of its own; credentials are passed per call so the process-
// wide application state stays the single owner of the connection lifecycle.
type Client struct {
	httpClient     *http.Client
	defaultTimeout time.Duration
}

// NewClient creates a control API client. timeout applies to every call that
// does not override it.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true, // self-signed loopback cert
				},
			},
		},
		defaultTimeout: timeout,
	}
}

// Do performs one request and returns the raw response body. Every expected
// failure mode is folded into ErrUnavailable; the error chain keeps the
// underlying cause for logging.
func (c *Client) Do(cr Credentials, method, path string, params url.Values, body any, timeout time.Duration) ([]byte, error) {
	if !cr.Valid() {
		return nil, ErrNotConnected
	}
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}

	u := cr.baseURL() + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth("riot", cr.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LCURequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.LCURequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.LCURequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	metrics.LCURequests.WithLabelValues(method, "ok").Inc()
	return data, nil
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(cr Credentials, path string, params url.Values, timeout time.Duration, out any) error {
	data, err := c.Do(cr, http.MethodGet, path, params, nil, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
