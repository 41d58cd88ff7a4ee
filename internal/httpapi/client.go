// Package httpapi is the shared outbound JSON client for the storefront
// service boundary. Every collaborator client (auth, cart, orders,
// payments, notifications) goes through it so that query encoding and
// error-payload handling live in one place.
package httpapi

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

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// APIError carries the structured error payload the backend attaches to
// non-2xx responses. Any of the payload fields may be empty; Status is
// always set.
type APIError struct {
	Status  int
	Message string `json:"message"`
	Code    string `json:"error"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// UserMessage resolves the message to show the user for a failed call:
// the server-provided message wins, then the transport error text, then
// the supplied fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Client issues JSON requests against a single base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient swaps the underlying http.Client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given base URL. A missing scheme
// defaults to http.
func NewClient(baseURL string, log zerolog.Logger, options ...ClientOption) *Client {
	if baseURL != "" && !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// RequestOption modifies a single outgoing request.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get issues a GET request and decodes the response body into out when
// out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, options ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, options...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any, options ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, query, body, out, options...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any, options ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out, options...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, options ...RequestOption) error {
	if c == nil || c.baseURL == "" {
		return errors.New("[httpapi.do] client not configured")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[httpapi.do] encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return errors.Wrap(err, "[httpapi.do] create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range options {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[httpapi.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			c.log.Debug().Err(decodeErr).Int("status", resp.StatusCode).Msg("error payload not parseable")
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "[httpapi.do] decode %s %s response", method, path)
	}
	return nil
}
