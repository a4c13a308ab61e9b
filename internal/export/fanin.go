package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// runLogWriter serializes worker log lines onto w.
func runLogWriter(w io.Writer, lines <-chan string) {
	for s := range lines {
		fmt.Fprintln(w, s)
	}
}

// runHeartbeat logs progress every interval until ctx is done.
func runHeartbeat(ctx context.Context, interval time.Duration, total int, tally *tally, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := tally.snapshot()
			logger.Info("heartbeat", "done", s.Success+s.Failed, "total", total, "success", s.Success, "failed", s.Failed, "bars", s.Bars)
		}
	}
}
