package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"barbridge/internal/provider/polygon"
)

// HeartbeatConfig controls upstream loss detection.
type HeartbeatConfig struct {
	Interval  time.Duration
	Threshold int
}

// PolygonProvider is a DataProvider implementation backed by the Polygon API.
// It embeds *polygon.Client to expose FetchWindow with minimal boilerplate.
type PolygonProvider struct {
	*polygon.Client
	hb *Heartbeat
}

// NewPolygonProvider creates a new Polygon-backed DataProvider.
func NewPolygonProvider(cfg polygon.Config, hb HeartbeatConfig, logger *slog.Logger) (*PolygonProvider, error) {
	client, err := polygon.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &PolygonProvider{
		Client: client,
		hb:     NewHeartbeat(client.Ping, hb.Interval, hb.Threshold, logger),
	}, nil
}

// GetName returns provider name
func (p *PolygonProvider) GetName() string {
	return "Polygon"
}

func (p *PolygonProvider) Connect(ctx context.Context) error {
	if err := p.Client.Ping(ctx); err != nil {
		return fmt.Errorf("polygon connect: %w", err)
	}
	p.hb.Start()
	return nil
}

func (p *PolygonProvider) Disconnected() <-chan error {
	return p.hb.Lost()
}

// Close stops loss detection before releasing the client, so a deliberate
// shutdown is never reported as a lost session.
func (p *PolygonProvider) Close() error {
	p.hb.Stop()
	return p.Client.Close()
}
