package app

import (
	"fmt"
	"log/slog"

	"barbridge/internal/provider"
	"barbridge/internal/provider/binance"
	"barbridge/internal/provider/polygon"
)

// CreateProvider creates the upstream DataProvider selected by config.
func CreateProvider(cfg *Config, logger *slog.Logger) (provider.DataProvider, error) {
	hb := provider.HeartbeatConfig{Interval: cfg.HeartbeatInterval, Threshold: cfg.HeartbeatFailures}
	switch cfg.DataProvider {
	case "polygon":
		return createPolygonProvider(cfg, hb, logger)
	case "binance":
		return provider.NewBinanceProvider(binance.Config{BaseURL: cfg.BinanceBaseURL}, hb, logger), nil
	default:
		return nil, fmt.Errorf("unsupported data provider: %s. Options: polygon, binance", cfg.DataProvider)
	}
}

func createPolygonProvider(cfg *Config, hb provider.HeartbeatConfig, logger *slog.Logger) (provider.DataProvider, error) {
	if len(cfg.PolygonAPIKeys) == 0 {
		return nil, fmt.Errorf("POLYGON_API_KEY or POLYGON_API_KEYS not set")
	}
	strategy, err := polygon.ParseStrategy(cfg.KeyStrategy)
	if err != nil {
		return nil, err
	}
	p, err := provider.NewPolygonProvider(polygon.Config{
		BaseURL:  cfg.PolygonBaseURL,
		APIKeys:  cfg.PolygonAPIKeys,
		Strategy: strategy,
	}, hb, logger)
	if err != nil {
		return nil, fmt.Errorf("create polygon client: %w", err)
	}
	return p, nil
}
