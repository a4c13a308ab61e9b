package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"barbridge/internal/model"
)

// Serialized queues FetchWindow calls on a shared upstream session.
// At most maxInFlight fetches run at once and starts are paced by a token bucket.
type Serialized struct {
	DataProvider
	limiter *rate.Limiter
	sem     chan struct{}
}

// NewSerialized wraps dp. ratePerMinute <= 0 disables pacing; maxInFlight < 1 means 1.
func NewSerialized(dp DataProvider, ratePerMinute, maxInFlight int) *Serialized {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	s := &Serialized{
		DataProvider: dp,
		sem:          make(chan struct{}, maxInFlight),
	}
	if ratePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}
	return s
}

func (s *Serialized) FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.sem }()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return s.DataProvider.FetchWindow(ctx, req)
}
