package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/metrics"
	"github.com/btcfi/oracle-aggregator/pkg/pricing"
	"github.com/btcfi/oracle-aggregator/pkg/version"
)

// SourceName tags price points produced by this client.
const SourceName = "binance"

const (
	klinePath      = "/api/v3/klines"
	requestTimeout = 10 * time.Second
	// MaxRetries is the per-fetch attempt budget.
	MaxRetries = 3
	// bucketInterval is the kline bucket size. Fetches always target the last
	// fully closed bucket so an in-progress, still-mutable one is never read.
	bucketInterval = time.Minute
)

// PricePoint is one validated close price, ready to submit.
type PricePoint struct {
	// PriceCents is the close price in integer minor units (price × 100,
	// rounded).
	PriceCents int64
	Source     string
	// Timestamp is the fetch completion time, not the bucket time. The
	// bucket only selects which historical data point to request.
	Timestamp time.Time
}

// Price returns the close price in currency units.
func (p PricePoint) Price() float64 {
	return float64(p.PriceCents) / 100
}

// Client fetches close prices from the Binance klines API.
type Client struct {
	apiURL     string
	symbol     string
	httpClient *http.Client
	logger     *logging.Logger
	maxRetries int

	// now and sleep are swapped out by tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client for the given API base URL and symbol.
func NewClient(apiURL, symbol string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Client{
		apiURL: apiURL,
		symbol: symbol,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:     logger,
		maxRetries: MaxRetries,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Name returns the source name.
func (c *Client) Name() string {
	return SourceName
}

// FetchClosePrice obtains one validated close price for the most recently
// closed one-minute bucket. Failed attempts are retried with exponential
// backoff until the budget is spent; exhaustion is terminal for this fetch
// and wraps ErrRetriesExhausted.
func (c *Client) FetchClosePrice(ctx context.Context) (PricePoint, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		c.logger.Info("Fetching close price",
			"source", SourceName,
			"symbol", c.symbol,
			"attempt", attempt,
			"max_attempts", c.maxRetries)

		point, err := c.fetchOnce(ctx)
		if err == nil {
			metrics.RecordFetchAttempt(SourceName, "success")
			c.logger.Info("Fetched close price",
				"price_cents", point.PriceCents,
				"attempt", attempt)
			return point, nil
		}

		metrics.RecordFetchAttempt(SourceName, "error")
		lastErr = err

		if attempt == c.maxRetries {
			break
		}

		wait := Backoff(attempt)
		c.logger.Warn("Fetch attempt failed, backing off",
			"attempt", attempt,
			"wait", wait.String(),
			"error", err.Error())
		metrics.RecordFetchRetry(SourceName)

		if err := c.sleep(ctx, wait); err != nil {
			return PricePoint{}, err
		}
	}

	metrics.RecordFetchFailure(SourceName)
	c.logger.Error("Fetch failed",
		"attempts", c.maxRetries,
		"error", lastErr.Error())
	return PricePoint{}, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.maxRetries, lastErr)
}

// fetchOnce issues a single request for the last closed bucket.
func (c *Client) fetchOnce(ctx context.Context) (PricePoint, error) {
	bucketEnd := c.now().UTC().Truncate(bucketInterval)
	bucketStart := bucketEnd.Add(-bucketInterval)

	url := fmt.Sprintf("%s%s?symbol=%s&interval=1m&startTime=%d&endTime=%d&limit=1",
		c.apiURL, klinePath, c.symbol, bucketStart.UnixMilli(), bucketEnd.UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PricePoint{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", version.AgentString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PricePoint{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PricePoint{}, classifyStatus(resp.StatusCode)
	}

	var klines []Kline
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return PricePoint{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(klines) == 0 {
		return PricePoint{}, ErrEmptyResponse
	}

	kline := klines[0]
	closePrice, _ := kline.Close.Float64()

	if err := pricing.Validate(closePrice); err != nil {
		return PricePoint{}, fmt.Errorf("close price rejected: %w", err)
	}
	if flag := pricing.Plausibility(closePrice); flag != pricing.FlagNone {
		c.logger.Warn("Close price outside sanity bounds",
			"price", closePrice,
			"bound", flag.String())
		metrics.RecordImplausiblePrice(flag.String())
	}

	c.logger.Debug("Parsed kline",
		"bucket_open", time.UnixMilli(kline.OpenTime).UTC().Format(time.RFC3339),
		"close", kline.Close.String())

	return PricePoint{
		PriceCents: kline.Close.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Source:     SourceName,
		Timestamp:  c.now(),
	}, nil
}

// sleepContext waits for d or until ctx is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
