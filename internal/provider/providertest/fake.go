// Package providertest provides an in-memory DataProvider for tests.
package providertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"barbridge/internal/model"
)

// Fake serves a fixed bar history backward in windows, like a real upstream.
// Requests are recorded. FailAt makes the n-th fetch (1-based) return Err.
type Fake struct {
	Name   string
	Now    time.Time
	Bars   []model.Bar
	FailAt int
	Err    error
	// Block, when set, is received from before every fetch returns.
	Block chan struct{}

	mu       sync.Mutex
	requests []model.WindowRequest
	lost     chan error
	closed   bool
}

// NewFake builds n consecutive bars of the given granularity ending before end.
func NewFake(end time.Time, n int, granularity time.Duration) *Fake {
	bars := make([]model.Bar, 0, n)
	for i := n; i > 0; i-- {
		ts := end.Add(-time.Duration(i) * granularity)
		px := 100 + float64(n-i)/100
		bars = append(bars, model.Bar{
			Time: ts, Open: px, High: px + 0.5, Low: px - 0.5, Close: px + 0.1,
			Volume: float64(1000 + i), Trades: int64(10 + i%7), VWAP: px + 0.05,
		})
	}
	return &Fake{Name: "Fake", Now: end, Bars: bars}
}

func (f *Fake) GetName() string {
	if f.Name == "" {
		return "Fake"
	}
	return f.Name
}

func (f *Fake) Connect(ctx context.Context) error { return ctx.Err() }

func (f *Fake) FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	f.mu.Unlock()

	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.FailAt > 0 && n == f.FailAt {
		return nil, f.Err
	}

	from, to := req.Bounds(f.Now)
	var out []model.Bar
	for _, b := range f.Bars {
		if !b.Time.Before(from) && b.Time.Before(to) {
			out = append(out, b)
		}
	}
	sort.Sort(sort.Reverse(model.ByTime(out)))
	return out, nil
}

// Requests returns a copy of every request seen so far.
func (f *Fake) Requests() []model.WindowRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.WindowRequest(nil), f.requests...)
}

func (f *Fake) Disconnected() <-chan error {
	return f.lostChan()
}

// Lose simulates an unexpected session drop.
func (f *Fake) Lose(err error) {
	f.lostChan() <- err
}

func (f *Fake) lostChan() chan error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lost == nil {
		f.lost = make(chan error, 1)
	}
	return f.lost
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
