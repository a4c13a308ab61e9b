package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PingFunc checks that the upstream session is still usable.
type PingFunc func(ctx context.Context) error

// Heartbeat pings the upstream on an interval and reports a lost session after
// Threshold consecutive failures. After Stop it never reports.
type Heartbeat struct {
	ping      PingFunc
	interval  time.Duration
	threshold int
	logger    *slog.Logger

	lost     chan error
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewHeartbeat(ping PingFunc, interval time.Duration, threshold int, logger *slog.Logger) *Heartbeat {
	if threshold < 1 {
		threshold = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Heartbeat{
		ping:      ping,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
		lost:      make(chan error, 1),
		stop:      make(chan struct{}),
	}
}

// Start launches the ping loop. An interval <= 0 disables pinging.
func (h *Heartbeat) Start() {
	if h.interval <= 0 {
		return
	}
	h.wg.Add(1)
	go h.run()
}

func (h *Heartbeat) Lost() <-chan error { return h.lost }

// Stop ends the ping loop and waits for it to exit.
func (h *Heartbeat) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	h.wg.Wait()
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.interval)
		err := h.ping(ctx)
		cancel()
		if err == nil {
			if failures > 0 {
				h.logger.Info("heartbeat recovered", "after_failures", failures)
			}
			failures = 0
			continue
		}

		failures++
		h.logger.Warn("heartbeat failed", "failures", failures, "threshold", h.threshold, "error", err)
		if failures < h.threshold {
			continue
		}
		select {
		case <-h.stop:
		case h.lost <- fmt.Errorf("%w: %d consecutive ping failures: %v", ErrSessionLost, failures, err):
		}
		return
	}
}
