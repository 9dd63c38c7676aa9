// Package supabase implements the User/Session Store gateways over the
// Supabase PostgREST table API. Each repository call is one HTTP round-trip
// with a per-call timeout and bounded retries; the client carries no state
// beyond configuration and is safe for concurrent use.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/authgate/authgate/store"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const (
	restPath         = "/rest/v1"
	maxResponseBytes = 1 << 20
)

// Client is a thin PostgREST table-API client authenticated with the
// project's API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
}

type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout applied to every store call.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetry sets the retry budget for transient failures: maxRetries
// attempts after the first, with exponential backoff starting at base.
func WithRetry(maxRetries uint64, base time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBase = base
	}
}

func NewClient(baseURL, apiKey string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		timeout:    5 * time.Second,
		maxRetries: 3,
		retryBase:  100 * time.Millisecond,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// requestError is a non-retryable error response from the store (4xx).
type requestError struct {
	Status int
	Body   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("store request failed with status %d: %s", e.Status, e.Body)
}

// do runs one table-API request. Transport errors and 5xx responses are
// retried with exponential backoff; once the budget is exhausted they
// surface as store.ErrUnavailable. 4xx responses fail immediately.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal body")
		}
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.roundTrip(ctx, method, table, query, payload, out)
	})
	if err == nil {
		return nil
	}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return errors.Wrap(store.ErrUnavailable, err.Error())
}

func (c *Client) roundTrip(ctx context.Context, method, table string, query url.Values, payload []byte, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+restPath+"/"+table, body)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return retry.RetryableError(err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return retry.RetryableError(errors.Errorf("store responded %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return &requestError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "[Client.roundTrip] decode response")
		}
	}
	return nil
}
