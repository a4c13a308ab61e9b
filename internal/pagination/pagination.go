// Package pagination walks an upstream backward in time, one window per fetch,
// and hands every bar to an emit callback.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"barbridge/internal/model"
)

// ErrStalled means a page did not move the cursor backward. Continuing would loop forever.
var ErrStalled = errors.New("pagination stalled")

// Order controls how pages are released to the caller.
type Order string

const (
	// OrderPaged emits each page ascending as soon as it arrives; pages go newest to oldest.
	OrderPaged Order = "paged"
	// OrderChronological holds every page and emits the whole history ascending at the end,
	// or when a later fetch fails. Memory grows with the length of the history.
	OrderChronological Order = "chronological"
)

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderPaged:
		return OrderPaged, nil
	case OrderChronological:
		return OrderChronological, nil
	default:
		return "", fmt.Errorf("unknown bar order %q (use: paged, chronological)", s)
	}
}

type Config struct {
	Window      time.Duration
	Granularity time.Duration
	RTHOnly     bool
	What        model.What
	Order       Order
}

// DefaultConfig is ten days of regular-hours one-minute trade bars per page.
func DefaultConfig() Config {
	return Config{
		Window:      10 * 24 * time.Hour,
		Granularity: time.Minute,
		RTHOnly:     true,
		What:        model.WhatTrades,
		Order:       OrderPaged,
	}
}

// Fetcher is the slice of the upstream the loop needs.
type Fetcher interface {
	FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req model.WindowRequest) ([]model.Bar, error)

func (f FetcherFunc) FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error) {
	return f(ctx, req)
}

// Stats summarizes one run.
type Stats struct {
	Pages  int
	Bars   int
	Oldest time.Time
	Newest time.Time
}

type Loop struct {
	fetcher Fetcher
	cfg     Config
	logger  *slog.Logger
}

func New(f Fetcher, cfg Config, logger *slog.Logger) *Loop {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Granularity <= 0 {
		cfg.Granularity = def.Granularity
	}
	if cfg.What == "" {
		cfg.What = def.What
	}
	if cfg.Order == "" {
		cfg.Order = def.Order
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{fetcher: f, cfg: cfg, logger: logger}
}

func (l *Loop) Config() Config { return l.cfg }

// Run pages backward from end (zero: most recent) until the upstream returns an
// empty page. Bars already emitted stay emitted when a later fetch or emit fails.
func (l *Loop) Run(ctx context.Context, inst model.Instrument, end time.Time, emit func(model.Bar) error) (Stats, error) {
	var (
		stats  Stats
		cursor = end
		held   [][]model.Bar
	)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		page, err := l.fetcher.FetchWindow(ctx, model.WindowRequest{
			Instrument:  inst,
			End:         cursor,
			Window:      l.cfg.Window,
			Granularity: l.cfg.Granularity,
			RTHOnly:     l.cfg.RTHOnly,
			What:        l.cfg.What,
		})
		if err != nil {
			err = fmt.Errorf("fetch window ending %s: %w", label(cursor), err)
			return stats, l.flushHeld(ctx, held, emit, &stats, err)
		}
		if len(page) == 0 {
			l.logger.Debug("upstream exhausted", "instrument", inst.String(), "cursor", label(cursor), "pages", stats.Pages)
			break
		}

		sort.Stable(model.ByTime(page))
		oldest := page[0].Time
		if !cursor.IsZero() && !oldest.Before(cursor) {
			err := fmt.Errorf("%w: page oldest %s is not before cursor %s", ErrStalled, oldest.Format(time.RFC3339), label(cursor))
			return stats, l.flushHeld(ctx, held, emit, &stats, err)
		}
		page = clip(page, cursor)

		stats.Pages++
		if stats.Newest.IsZero() {
			stats.Newest = page[len(page)-1].Time
		}
		stats.Oldest = oldest
		l.logger.Debug("page",
			"instrument", inst.String(),
			"cursor", label(cursor),
			"bars", len(page),
			"oldest", oldest.Format(time.RFC3339),
		)
		cursor = oldest

		if l.cfg.Order == OrderChronological {
			held = append(held, page)
			continue
		}
		if err := l.emitAll(ctx, page, emit, &stats); err != nil {
			return stats, err
		}
	}

	return stats, l.flushHeld(ctx, held, emit, &stats, nil)
}

// flushHeld emits held pages oldest first, then returns cause. Held pages are a
// contiguous run ending at the request's end, so after a failed fetch the caller
// still gets the newest part of the history in ascending order.
func (l *Loop) flushHeld(ctx context.Context, held [][]model.Bar, emit func(model.Bar) error, stats *Stats, cause error) error {
	for i := len(held) - 1; i >= 0; i-- {
		if err := l.emitAll(ctx, held[i], emit, stats); err != nil {
			return err
		}
	}
	return cause
}

func (l *Loop) emitAll(ctx context.Context, page []model.Bar, emit func(model.Bar) error, stats *Stats) error {
	for _, bar := range page {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(bar); err != nil {
			return err
		}
		stats.Bars++
	}
	return nil
}

// clip drops bars at or after cursor and repeated instants from an ascending page.
func clip(page []model.Bar, cursor time.Time) []model.Bar {
	out := page[:0]
	for _, bar := range page {
		if !cursor.IsZero() && !bar.Time.Before(cursor) {
			break
		}
		if len(out) > 0 && bar.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, bar)
	}
	return out
}

func label(t time.Time) string {
	if t.IsZero() {
		return "latest"
	}
	return t.UTC().Format(time.RFC3339)
}
