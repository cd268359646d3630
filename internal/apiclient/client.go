// Package apiclient is the shared JSON-over-HTTP client used by every
// upstream API wrapper (orchestration, whereabouts).
package apiclient

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

	"golang.org/x/oauth2"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 300
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	API    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.API, e.Status, e.Body)
}

// IsStatus reports whether err wraps a StatusError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range codes {
		if se.Status == code {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// Options configures a Client.
type Options struct {
	// API names the upstream in logs, errors and metrics.
	API     string
	BaseURL string
	// TokenSource supplies system tokens. Requests are sent without an
	// Authorization header when nil.
	TokenSource oauth2.TokenSource
	Timeout     time.Duration
	Logger      *logging.Logger
	Metrics     *metrics.UpstreamMetrics
	HTTPClient  *http.Client
}

// Client performs JSON requests against one upstream API.
type Client struct {
	api         string
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	logger      *logging.Logger
	metrics     *metrics.UpstreamMetrics
}

// New constructs a Client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		api:         opts.API,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  httpClient,
		tokenSource: opts.TokenSource,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// PutJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return fmt.Errorf("%s: system token: %w", c.api, err)
		}
		token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(c.api, 0, time.Since(start).Seconds())
		return fmt.Errorf("%s: http request: %w", c.api, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.ObserveRequest(c.api, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.api, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > maxErrorBodyLen {
			msg = msg[:maxErrorBodyLen]
		}
		c.logger.Warn("upstream API non-2xx response", "api", c.api, "status", resp.StatusCode, "path", path, "body", msg)
		return &StatusError{API: c.api, Status: resp.StatusCode, Body: msg}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.api, err)
	}
	return nil
}
