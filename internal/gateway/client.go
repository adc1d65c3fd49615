// Package gateway is the REST client records are loaded from and submitted
// to.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/logger"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second
	// DefaultReadRetries is how often reads are retried on 5xx or network
	// errors.
	DefaultReadRetries = 2
	// maxBody caps how much of a response is read.
	maxBody = 8 << 20
)

var numericID = regexp.MustCompile(`^\d+$`)

// Client talks to the backend REST API. Submissions go out once; reads are
// retried.
type Client struct {
	baseURL *url.URL
	token   string
	submit  *http.Client
	read    *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.submit.Timeout = d
		c.read.HTTPClient.Timeout = d
	}
}

// WithReadRetries sets how many times a read is retried.
func WithReadRetries(n int) Option {
	return func(c *Client) {
		c.read.RetryMax = n
	}
}

// WithRetryWait sets the backoff bounds between read retries.
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.read.RetryWaitMin = waitMin
		c.read.RetryWaitMax = waitMax
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse API base URL: unsupported scheme %q", u.Scheme)
	}

	submit := cleanhttp.DefaultPooledClient()
	submit.Timeout = DefaultTimeout

	read := retryablehttp.NewClient()
	read.HTTPClient = cleanhttp.DefaultPooledClient()
	read.HTTPClient.Timeout = DefaultTimeout
	read.RetryMax = DefaultReadRetries
	read.Logger = leveledLogger{}
	read.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: u,
		submit:  submit,
		read:    read,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit sends a record: POST /{resource} for new records, PUT
// /{resource}/{id} for existing ones. It implements form.Gateway.
func (c *Client) Submit(ctx context.Context, sub *form.Submission) (form.Record, error) {
	body, contentType, err := encodeMultipart(sub.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", sub.Singular, err)
	}

	method, endpoint := http.MethodPost, c.endpoint(sub.Resource)
	if sub.ID != "" {
		method, endpoint = http.MethodPut, c.endpoint(sub.Resource, sub.ID)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req.Header)

	logger.Debug("%s %s (%d fields, %d files)", method, endpoint, len(sub.Payload.Values), len(sub.Payload.Files))
	resp, err := c.submit.Do(req)
	if err != nil {
		logger.Warn("%s %s failed: %v", method, endpoint, err)
		return nil, &Error{Message: unreachableMessage, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: unreachableMessage, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("%s %s: status %d", method, endpoint, resp.StatusCode)
		return nil, errorFromResponse(resp.StatusCode, data)
	}
	logger.Info("%s %s: status %d", method, endpoint, resp.StatusCode)
	return decodeRecord(data, sub.Singular)
}

// Get loads one record for editing. Non-numeric ids and 404 responses
// return ErrNotFound.
func (c *Client) Get(ctx context.Context, resource, singular, id string) (form.Record, error) {
	if !numericID.MatchString(id) {
		return nil, ErrNotFound
	}
	data, err := c.fetch(ctx, c.endpoint(resource, id))
	if err != nil {
		return nil, err
	}
	return decodeRecord(data, singular)
}

// List loads every record of a resource.
func (c *Client) List(ctx context.Context, resource string) ([]form.Record, error) {
	data, err := c.fetch(ctx, c.endpoint(resource))
	if err != nil {
		return nil, err
	}
	return decodeList(data, resource)
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req = req.WithContext(ctx)
	c.authorize(req.Header)

	// Retries exhausted on a 5xx still hand back the last response.
	resp, err := c.read.Do(req)
	if resp == nil {
		logger.Warn("GET %s failed: %v", endpoint, err)
		return nil, &Error{Message: unreachableMessage, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: unreachableMessage, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) endpoint(parts ...string) string {
	return c.baseURL.JoinPath(parts...).String()
}

func (c *Client) authorize(h http.Header) {
	h.Set("Accept", "application/json")
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
}

// leveledLogger routes retryablehttp's logging into the rentdesk log.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, kv ...any) { logger.Error("%s", formatKV(msg, kv)) }
func (leveledLogger) Info(msg string, kv ...any)  { logger.Debug("%s", formatKV(msg, kv)) }
func (leveledLogger) Debug(msg string, kv ...any) { logger.Debug("%s", formatKV(msg, kv)) }
func (leveledLogger) Warn(msg string, kv ...any)  { logger.Warn("%s", formatKV(msg, kv)) }

func formatKV(msg string, kv []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
