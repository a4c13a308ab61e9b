package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"barbridge/internal/model"
)

const (
	// DefaultBaseURL is the public Polygon REST endpoint.
	DefaultBaseURL = "https://api.polygon.io"

	// Max 50k results per request
	maxLimit = 50000

	// Minutes per trading day (max, extended hours)
	minPerDay = 960

	defaultMaxRetries = 3
	defaultRetryDelay = 15 * time.Second
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL    string
	APIKeys    []string
	Strategy   KeySelectionStrategy
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Client fetches aggregate bars from the Polygon API, one window per request.
type Client struct {
	client     *http.Client
	baseURL    string
	keys       *KeyPool
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// estimatedBars returns pre-alloc capacity for [from, to]. days * 960 + 10% buffer.
func estimatedBars(from, to time.Time) int {
	if !from.Before(to) {
		return 0
	}
	days := int(to.Sub(from).Hours()/24) + 1
	n := days * minPerDay
	n = n + n/10
	if n > maxLimit {
		n = maxLimit
	}
	return n
}

// timespan maps a granularity onto Polygon's multiplier/timespan pair.
func timespan(g time.Duration) (int, string) {
	switch {
	case g >= time.Hour && g%time.Hour == 0:
		return int(g / time.Hour), "hour"
	case g >= time.Minute && g%time.Minute == 0:
		return int(g / time.Minute), "minute"
	case g >= time.Second && g%time.Second == 0:
		return int(g / time.Second), "second"
	default:
		return 1, "minute"
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	for _, s := range c.keys.Stats() {
		c.logger.Debug("polygon key usage", "key", s.KeyPrefix, "requests", s.RequestCount)
	}
	return nil
}

// buildAggregatesRequest builds GET request for aggregates, newest first.
func (c *Client) buildAggregatesRequest(ctx context.Context, ticker string, multiplier int, span string, fromMillis, toMillis int64, apiKey string) (*http.Request, error) {
	rawURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%d/%d", c.baseURL, url.PathEscape(ticker), multiplier, span, fromMillis, toMillis)
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("adjusted", "true")
	q.Set("limit", strconv.Itoa(maxLimit))
	q.Set("sort", "desc")
	q.Set("apiKey", apiKey)
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// doAggregatesRequest runs one aggregates call with retries. A 429 rotates to the next key.
func (c *Client) doAggregatesRequest(ctx context.Context, build func(apiKey string) (*http.Request, error)) (*AggregatesResponse, error) {
	key := c.keys.Next()
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := build(key)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.maxRetries {
				if err := sleepCtx(ctx, c.retryDelay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("API call failed after %d attempts: %w", c.maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				if attempt < c.maxRetries {
					c.logger.Warn("polygon rate limited, rotating key", "key", keyPrefix(key), "attempt", attempt, "retry_in", c.retryDelay)
					if err := sleepCtx(ctx, c.retryDelay); err != nil {
						return nil, err
					}
					key = c.keys.Next()
					continue
				}
				return nil, fmt.Errorf("API rate limit (429) after %d attempts: %s", c.maxRetries, string(body))
			}
			return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
		}

		var result AggregatesResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			if attempt < c.maxRetries {
				if err := sleepCtx(ctx, c.retryDelay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("parse JSON: %w", err)
		}

		switch result.Status {
		case "OK":
		case "DELAYED":
			c.logger.Debug("polygon returned delayed data", "ticker", result.Ticker)
		default:
			return nil, fmt.Errorf("API status not OK: %s", result.Status)
		}
		return &result, nil
	}
	return nil, fmt.Errorf("no response")
}

// FetchWindow fetches the bars in [End-Window, End), newest first.
// The end is made exclusive by asking for End-1ms, so a bar starting exactly
// at End belongs to the next newer window.
func (c *Client) FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error) {
	// aggregates are built from trades only
	if err := req.RequireWhat(model.WhatTrades); err != nil {
		return nil, err
	}
	from, to := req.Bounds(c.now())
	fromMillis := from.UnixMilli()
	toMillis := to.UnixMilli() - 1
	if toMillis < fromMillis {
		return nil, nil
	}
	multiplier, span := timespan(req.Granularity)
	ticker := req.Instrument.Symbol

	response, err := c.doAggregatesRequest(ctx, func(apiKey string) (*http.Request, error) {
		return c.buildAggregatesRequest(ctx, ticker, multiplier, span, fromMillis, toMillis, apiKey)
	})
	if err != nil {
		return nil, fmt.Errorf("polygon aggregates %s: %w", ticker, err)
	}

	bars := make([]model.Bar, 0, estimatedBars(from, to))
	for _, raw := range response.Results {
		bar := raw.ToBar()
		if bar.Time.Before(from) || !bar.Time.Before(to) {
			continue
		}
		if req.RTHOnly && !InRegularHours(bar.Time) {
			continue
		}
		bars = append(bars, bar)
	}
	sort.Sort(sort.Reverse(model.ByTime(bars)))

	c.logger.Debug("polygon window",
		"ticker", ticker,
		"from", from.Format(time.RFC3339),
		"to", to.Format(time.RFC3339),
		"results", len(response.Results),
		"bars", len(bars),
	)
	return bars, nil
}

// Ping checks that the API answers with one of our keys.
func (c *Client) Ping(ctx context.Context) error {
	u, err := url.Parse(c.baseURL + "/v1/marketstatus/now")
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", c.keys.Next())
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market status %d", resp.StatusCode)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
