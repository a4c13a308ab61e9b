package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"barbridge/internal/app"
	"barbridge/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	os.Exit(run())
}

func run() int {
	a, err := InitializeApp()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	slog.SetDefault(a.Logger)
	cfg := a.Config
	slog.Info("starting barbridge",
		"addr", cfg.Addr(), "provider", cfg.DataProvider,
		"window", cfg.Window, "granularity", cfg.Granularity, "rth_only", cfg.RTHOnly, "order", cfg.Order)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = a.Supervisor.Run(ctx)
	switch {
	case err == nil:
		slog.Info("stopped")
		return 0
	case errors.Is(err, app.ErrUpstreamLost):
		slog.Error("exiting after upstream loss", "error", err)
		return 1
	case ctx.Err() != nil:
		// interrupted while still connecting
		slog.Info("stopped before serving", "error", err)
		return 0
	default:
		slog.Error("supervisor failed", "error", err)
		return 1
	}
}
