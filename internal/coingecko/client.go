package coingecko

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketScope/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultCurrency = "usd"
	DefaultTimeout  = 30 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"
	maxErrorBody = 512
)

// Client talks to the market data provider's REST API.
type Client struct {
	baseURL  string
	currency string
	apiKey   string
	client   *http.Client
	retry    RetryPolicy
	sleep    Sleeper
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithCurrency sets the target (vs) currency.
func WithCurrency(currency string) ClientOption {
	return func(c *Client) {
		c.currency = strings.ToLower(strings.TrimSpace(currency))
	}
}

// WithAPIKey sends the demo API key header on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithRetryPolicy sets the per-request retry budget.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.retry = p
	}
}

// WithSleeper replaces the wait primitive used between attempts.
func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) {
		c.sleep = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records retries and requests.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new provider client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		currency: DefaultCurrency,
		client:   &http.Client{Timeout: DefaultTimeout},
		retry:    DefaultRetryPolicy(),
		sleep:    SleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.sleep == nil {
		c.sleep = SleepContext
	}
	if c.currency == "" {
		c.currency = DefaultCurrency
	}
	return c
}

// Currency returns the target currency.
func (c *Client) Currency() string {
	return c.currency
}

// Sleep waits using the client's sleeper, so callers share one timing source.
func (c *Client) Sleep(ctx context.Context, d time.Duration) error {
	return c.sleep(ctx, d)
}

// get performs a single GET without retries.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.metrics.RequestIssued()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
