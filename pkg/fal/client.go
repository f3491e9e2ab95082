package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/nunomen/falgen/pkg/logger"
)

const (
	// DefaultBaseURL is the fal.ai queue endpoint.
	DefaultBaseURL = "https://queue.fal.run"

	defaultHTTPTimeout  = 60 * time.Second
	defaultPollInterval = 3 * time.Second
	defaultMaxWait      = 10 * time.Minute
)

// RetrySettings bounds the retry behavior for transient submission and
// status-check failures. Delays are in milliseconds to keep them directly
// configurable.
type RetrySettings struct {
	Attempts     int
	InitialDelay int
	MaxDelay     int
	BackoffType  string
}

// DefaultRetrySettings is used when no retry settings are configured.
var DefaultRetrySettings = RetrySettings{
	Attempts:     3,
	InitialDelay: 1000,
	MaxDelay:     10000,
	BackoffType:  "exponential",
}

// Client talks to the fal.ai queue API. The credential is passed in
// explicitly at construction; the client never reads process environment.
type Client struct {
	baseURL      string
	credential   string
	httpClient   *http.Client
	retry        RetrySettings
	pollInterval time.Duration
	maxWait      time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the queue endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(settings RetrySettings) Option {
	return func(c *Client) {
		if settings.Attempts > 0 {
			c.retry = settings
		}
	}
}

// WithPolling sets the status polling interval and the upper bound on the
// total time spent waiting for a job.
func WithPolling(interval, maxWait time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if maxWait > 0 {
			c.maxWait = maxWait
		}
	}
}

// New creates a Client with the given API credential. It fails with
// ErrMissingCredential when the credential is empty so that a missing key is
// caught before any request is attempted.
func New(credential string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrMissingCredential
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		credential:   credential,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		retry:        DefaultRetrySettings,
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit resolves the request's model, builds its payload and enqueues it on
// the fal.ai queue, returning a handle for polling. Client-side validation
// failures by the service are surfaced as *RequestRejectedError with the
// service message intact.
func (c *Client) Submit(ctx context.Context, req *Request) (*JobHandle, error) {
	endpoint, err := req.Endpoint()
	if err != nil {
		return nil, err
	}

	payload, err := req.payload()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request payload")
	}

	logger.G(ctx).WithField("endpoint", endpoint).WithField("kind", req.Kind).Debug("submitting job")

	var handle JobHandle
	err = c.doWithRetry(ctx, "submit", func() error {
		return c.postJSON(ctx, c.baseURL+"/"+endpoint, body, &handle)
	})
	if err != nil {
		return nil, err
	}
	handle.Kind = req.Kind

	logger.G(ctx).WithField("request_id", handle.RequestID).Debug("job submitted")
	return &handle, nil
}

// Generate is the blocking convenience path: submit the request and wait for
// its terminal result.
func (c *Client) Generate(ctx context.Context, req *Request) (*Result, error) {
	handle, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.WaitForResult(ctx, handle)
}

func (c *Client) doWithRetry(ctx context.Context, op string, fn func() error) error {
	initialDelay := time.Duration(c.retry.InitialDelay) * time.Millisecond
	maxDelay := time.Duration(c.retry.MaxDelay) * time.Millisecond

	var delayType retry.DelayTypeFunc
	switch c.retry.BackoffType {
	case "fixed":
		delayType = retry.FixedDelay
	case "exponential":
		fallthrough
	default:
		delayType = retry.BackOffDelay
	}

	return retry.Do(
		fn,
		retry.RetryIf(isRetryableError),
		retry.Attempts(uint(c.retry.Attempts)),
		retry.Delay(initialDelay),
		retry.DelayType(delayType),
		retry.MaxDelay(maxDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("operation", op).
				WithField("attempt", n+1).
				WithField("max_attempts", c.retry.Attempts).
				Warn("retrying fal.ai API call")
		}),
	)
}

// isRetryableError treats transport errors and 5xx responses as transient.
// Rejections and other client errors are permanent.
func isRetryableError(err error) bool {
	var rejected *RequestRejectedError
	return !errors.As(err, &rejected)
}

// serverError marks a 5xx response so the retry policy can distinguish it
// from a rejection.
type serverError struct {
	status int
	body   string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("fal.ai returned HTTP %d: %s", e.status, e.body)
}

func (c *Client) postJSON(ctx context.Context, url string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Key "+c.credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &RequestRejectedError{Status: resp.StatusCode, Detail: serviceDetail(data)}
	default:
		return &serverError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}
}

// serviceDetail extracts the human-readable message from an error body. The
// service uses a "detail" field that is either a string or a structured
// list; anything unparseable is returned verbatim.
func serviceDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && len(body.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil {
			return detail
		}
		return string(body.Detail)
	}
	return strings.TrimSpace(string(data))
}
