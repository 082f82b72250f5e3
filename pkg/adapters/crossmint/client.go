// Package crossmint talks to the remote map service: it fetches the goal grid and
// delivers entity-creation requests with bounded exponential backoff.
package crossmint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/megaverse/pkg/backoff"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/google/uuid"
)

// DefaultBaseURL is the public challenge endpoint.
const DefaultBaseURL = "https://challenge.crossmint.io"

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// HeaderRequestID carries a fresh identifier on every attempt.
const HeaderRequestID = "X-Request-ID"

// Client implements ports.GoalSource and ports.Dispatcher against the map API.
type Client struct {
	baseURL     *url.URL
	candidateID string
	httpClient  *http.Client
	policy      backoff.Policy
	sleep       backoff.SleepFunc
	rng         *rand.Rand
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	requestID   func() string
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-attempt timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(p backoff.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithSleep replaces the backoff sleep (tests use it to avoid waiting).
func WithSleep(fn backoff.SleepFunc) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

// WithRand sets the jitter source. The client is used sequentially, so the source need not be shared-safe.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		c.rng = rng
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers delivery observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// New creates a client for the given service root and candidate identity.
func New(baseURL, candidateID string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, domain.ErrCandidateRequired
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:     u,
		candidateID: candidateID,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		policy:      backoff.DefaultPolicy(),
		sleep:       backoff.Sleep,
		requestID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

// CandidateID returns the identity sent with every request.
func (c *Client) CandidateID() string {
	return c.candidateID
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	return u.String()
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// do performs one request and returns the status and a body that is known to be valid JSON.
func (c *Client) do(ctx context.Context, method, target string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, c.requestID())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, data, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if !json.Valid(data) {
		return resp.StatusCode, data, fmt.Errorf("response body is not valid JSON: %q", truncate(data, 120))
	}
	return resp.StatusCode, data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
