package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response is read. Backtest payloads carry
// one equity point per trading day, so they are large but bounded.
const maxBodyBytes = 32 << 20

// ClientOptions holds options for creating a new Client.
type ClientOptions struct {
	BaseURL         string
	Timeout         time.Duration
	RequestsPerSec  int
	BreakerFailures int
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the backtest analytics service. All endpoints are
// read-only, so callers may abandon a request at any time.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

// NewClient creates a new analytics client with rate limiting and a circuit
// breaker around the data endpoints.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", opts.BaseURL)
	}

	// Backtests routinely take 30-60s on the service side.
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 5
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := log.With().Str("component", "api_client").Str("base_url", base.String()).Logger()

	threshold := uint32(opts.BreakerFailures)
	st := gobreaker.Settings{
		Name:     "analytics",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
		},
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.RequestsPerSec),
		breaker:    gobreaker.NewCircuitBreaker(st),
		logger:     logger,
	}, nil
}

// isBreakerSuccess keeps client-side failures (bad index, cancelled
// requests) from tripping the breaker. Only transport errors and 5xx count.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Temporary()
	}
	return false
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// BreakerState reports the circuit breaker state ("closed", "open",
// "half-open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Backtest fetches the full backtest result for a strategy and symbol.
func (c *Client) Backtest(ctx context.Context, strategy Strategy, symbol Symbol) (*BacktestResult, error) {
	q := url.Values{}
	q.Set("strategy", string(strategy))
	q.Set("symbol", string(symbol))

	var result BacktestResult
	if err := c.guardedGet(ctx, "/api/backtest", q, &result); err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("strategy", string(strategy)).
		Str("symbol", string(symbol)).
		Int("trades", len(result.Trades)).
		Int("equity_points", len(result.EquityCurve)).
		Msg("Fetched backtest")
	return &result, nil
}

// ExplainTrade fetches the natural-language explanation for the trade at
// index. The service resolves index against its own trade list.
func (c *Client) ExplainTrade(ctx context.Context, index int) (*TradeExplanation, error) {
	if index < 0 {
		return nil, fmt.Errorf("trade index must be >= 0, got %d", index)
	}
	var out TradeExplanation
	if err := c.guardedGet(ctx, "/api/trades/"+strconv.Itoa(index)+"/explain", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeatureImportance fetches the model's global feature coefficients.
func (c *Client) FeatureImportance(ctx context.Context) ([]FeatureImportance, error) {
	var out featureImportanceResponse
	if err := c.guardedGet(ctx, "/api/feature-importance", nil, &out); err != nil {
		return nil, err
	}
	return out.Features, nil
}

// CompareTrades fetches the service's side-by-side write-up of one winning
// and one losing trade.
func (c *Client) CompareTrades(ctx context.Context) (*TradeComparison, error) {
	var out TradeComparison
	if err := c.guardedGet(ctx, "/api/trades/compare", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DatasetPreview fetches the last rows of the model's training table. The
// service picks the symbol; rows <= 0 leaves the count to the service.
func (c *Client) DatasetPreview(ctx context.Context, rows int) (*DatasetPreview, error) {
	var q url.Values
	if rows > 0 {
		q = url.Values{}
		q.Set("rows", strconv.Itoa(rows))
	}
	var out DatasetPreview
	if err := c.guardedGet(ctx, "/api/dataset/preview", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info fetches the service banner. It bypasses the circuit breaker so that
// readiness probes never trip it.
func (c *Client) Info(ctx context.Context) (*ServiceInfo, error) {
	var out ServiceInfo
	if err := c.get(ctx, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitReady polls Info with exponential backoff until the service answers
// or maxWait elapses.
func (c *Client) WaitReady(ctx context.Context, maxWait time.Duration) (*ServiceInfo, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	var info *ServiceInfo
	operation := func() error {
		var err error
		info, err = c.Info(ctx)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Temporary() {
				return backoff.Permanent(err)
			}
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		c.logger.Debug().Err(err).Dur("retry_in", next).Msg("Service not ready")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("waiting for service: %w", err)
	}
	return info, nil
}

// guardedGet runs get behind the circuit breaker.
func (c *Client) guardedGet(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.get(ctx, path, query, out)
	})
	return err
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(body)).
		Msg("GET")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error().Err(err).Str("path", path).Str("response", truncate(string(body), 200)).Msg("Error parsing JSON")
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}
