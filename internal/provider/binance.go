package provider

import (
	"context"
	"fmt"
	"log/slog"

	"barbridge/internal/provider/binance"
)

// BinanceProvider serves crypto spot klines through the same DataProvider surface.
type BinanceProvider struct {
	*binance.Client
	hb *Heartbeat
}

func NewBinanceProvider(cfg binance.Config, hb HeartbeatConfig, logger *slog.Logger) *BinanceProvider {
	client := binance.NewClient(cfg, logger)
	return &BinanceProvider{
		Client: client,
		hb:     NewHeartbeat(client.Ping, hb.Interval, hb.Threshold, logger),
	}
}

func (p *BinanceProvider) GetName() string {
	return "Binance"
}

func (p *BinanceProvider) Connect(ctx context.Context) error {
	if err := p.Client.Ping(ctx); err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	p.hb.Start()
	return nil
}

func (p *BinanceProvider) Disconnected() <-chan error {
	return p.hb.Lost()
}

func (p *BinanceProvider) Close() error {
	p.hb.Stop()
	return p.Client.Close()
}
