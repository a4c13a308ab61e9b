package model

import (
	"errors"
	"fmt"
	"time"
)

// What selects which upstream series a window is built from.
type What string

const (
	WhatTrades   What = "TRADES"
	WhatMidpoint What = "MIDPOINT"
)

// ErrUnsupportedWhat is returned by upstreams that cannot build the requested series.
var ErrUnsupportedWhat = errors.New("unsupported bar series")

// RequireWhat fails unless the request asks for one of supported.
// An empty What means TRADES.
func (r WindowRequest) RequireWhat(supported ...What) error {
	what := r.What
	if what == "" {
		what = WhatTrades
	}
	for _, s := range supported {
		if what == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedWhat, what)
}

// WindowRequest asks an upstream for the bars of one bounded window ending at End.
// The window is [End-Window, End). A zero End means the most recent window.
type WindowRequest struct {
	Instrument  Instrument
	End         time.Time
	Window      time.Duration
	Granularity time.Duration
	RTHOnly     bool
	What        What
}

// Bounds resolves the request window against now. The returned end is exclusive.
func (r WindowRequest) Bounds(now time.Time) (from, to time.Time) {
	to = r.End
	if to.IsZero() {
		to = now
	}
	return to.Add(-r.Window), to
}
