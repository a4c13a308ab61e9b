// Package binance serves spot klines from Binance as one-window pages.
package binance

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	gobinance "github.com/adshao/go-binance/v2"

	"barbridge/internal/model"
)

const (
	DefaultBaseURL = "https://api.binance.com"

	// maxKlines is the spot klines page cap.
	maxKlines = 1000
)

var intervals = map[time.Duration]string{
	time.Minute:      "1m",
	3 * time.Minute:  "3m",
	5 * time.Minute:  "5m",
	15 * time.Minute: "15m",
	30 * time.Minute: "30m",
	time.Hour:        "1h",
	2 * time.Hour:    "2h",
	4 * time.Hour:    "4h",
	6 * time.Hour:    "6h",
	8 * time.Hour:    "8h",
	12 * time.Hour:   "12h",
	24 * time.Hour:   "1d",
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client wraps the go-binance spot client.
type Client struct {
	api    *gobinance.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	api := gobinance.NewClient("", "")
	api.BaseURL = base
	api.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{api: api, logger: logger.With("provider", "binance")}
}

// PairSymbol maps an instrument onto a Binance pair: BTC/USDT -> BTCUSDT.
// USD quotes trade as USDT on the spot market.
func PairSymbol(inst model.Instrument) string {
	quote := inst.Currency
	if quote == "" || quote == "USD" {
		quote = "USDT"
	}
	sym := strings.ReplaceAll(inst.Symbol, "/", "")
	if strings.HasSuffix(sym, quote) {
		return sym
	}
	return sym + quote
}

// FetchWindow returns up to maxKlines bars that open strictly before End, newest first.
// The window length is bounded by the page cap rather than req.Window: klines are
// requested by end time only, so a page is always the newest slice before End.
// Crypto trades around the clock and RTHOnly has no effect.
func (c *Client) FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error) {
	if err := req.RequireWhat(model.WhatTrades); err != nil {
		return nil, err
	}
	interval, ok := intervals[req.Granularity]
	if !ok {
		return nil, fmt.Errorf("binance has no interval for granularity %s", req.Granularity)
	}
	symbol := PairSymbol(req.Instrument)
	svc := c.api.NewKlinesService().Symbol(symbol).Interval(interval).Limit(maxKlines)
	if !req.End.IsZero() {
		svc = svc.EndTime(req.End.UnixMilli() - 1)
	}
	kls, err := svc.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	bars := make([]model.Bar, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		bar, err := toBar(kl)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
		}
		if !req.End.IsZero() && !bar.Time.Before(req.End) {
			continue
		}
		bars = append(bars, bar)
	}
	sort.Sort(sort.Reverse(model.ByTime(bars)))
	c.logger.Debug("binance window", "symbol", symbol, "interval", interval, "bars", len(bars))
	return bars, nil
}

// Ping checks the REST API.
func (c *Client) Ping(ctx context.Context) error {
	return c.api.NewPingService().Do(ctx)
}

func (c *Client) Close() error {
	c.api.HTTPClient.CloseIdleConnections()
	return nil
}

// toBar maps one kline. VWAP is quote volume over base volume, or Close when
// nothing traded.
func toBar(kl *gobinance.Kline) (model.Bar, error) {
	p := klineParser{open: kl.OpenTime}
	bar := model.Bar{
		Time:   time.UnixMilli(kl.OpenTime).UTC(),
		Open:   p.float("open", kl.Open),
		High:   p.float("high", kl.High),
		Low:    p.float("low", kl.Low),
		Close:  p.float("close", kl.Close),
		Volume: p.float("volume", kl.Volume),
		Trades: kl.TradeNum,
	}
	quote := p.float("quote volume", kl.QuoteAssetVolume)
	if p.err != nil {
		return model.Bar{}, p.err
	}
	if bar.Volume > 0 {
		bar.VWAP = quote / bar.Volume
	} else {
		bar.VWAP = bar.Close
	}
	return bar, nil
}

// klineParser keeps the first field that fails to parse.
type klineParser struct {
	open int64
	err  error
}

func (p *klineParser) float(field, s string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.err = fmt.Errorf("kline %d %s %q: %w", p.open, field, s, err)
		return 0
	}
	return v
}
