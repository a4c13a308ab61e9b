package app

import (
	"log/slog"
	"os"

	"google.golang.org/grpc/health"

	"barbridge/internal/model"
	"barbridge/internal/pagination"
	"barbridge/internal/provider"
	"barbridge/internal/server"
	"barbridge/internal/slogx"
)

// ProvideConfig loads config from command line and environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig(os.Args[1:])
}

// ProvideLogger builds the process logger from config (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	return slogx.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// ProvideDataProvider creates the upstream session and queues fetches on it (for Wire).
// Caller must call dp.Close() when shutting down; the Supervisor does.
func ProvideDataProvider(cfg *Config, logger *slog.Logger) (provider.DataProvider, error) {
	dp, err := CreateProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("using data provider", "provider", dp.GetName(), "max_in_flight", cfg.MaxInFlight, "rate_per_minute", cfg.RatePerMinute)
	return provider.NewSerialized(dp, cfg.RatePerMinute, cfg.MaxInFlight), nil
}

// ProvidePaginationConfig maps config onto pagination settings (for Wire).
func ProvidePaginationConfig(cfg *Config) (pagination.Config, error) {
	order, err := pagination.ParseOrder(cfg.Order)
	if err != nil {
		return pagination.Config{}, err
	}
	return pagination.Config{
		Window:      cfg.Window,
		Granularity: cfg.Granularity,
		RTHOnly:     cfg.RTHOnly,
		What:        model.WhatTrades,
		Order:       order,
	}, nil
}

// ProvideLoop binds the pagination loop to the shared upstream (for Wire).
func ProvideLoop(dp provider.DataProvider, pc pagination.Config, logger *slog.Logger) *pagination.Loop {
	return pagination.New(dp, pc, logger)
}

// ProvideHealth creates the gRPC health service, NOT_SERVING until the upstream connects.
func ProvideHealth() *health.Server {
	hs := health.NewServer()
	server.SetServing(hs, false)
	return hs
}
