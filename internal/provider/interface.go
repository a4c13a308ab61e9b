package provider

import (
	"context"
	"errors"

	"barbridge/internal/model"
)

// ErrSessionLost is delivered on Disconnected when the upstream session drops.
var ErrSessionLost = errors.New("upstream session lost")

// DataProvider is the abstraction the bridge uses to reach an upstream data source.
// Implementations own their transport and must release it on Close.
type DataProvider interface {
	GetName() string
	// Connect establishes the session and starts loss detection.
	Connect(ctx context.Context) error
	// FetchWindow returns the bars of one window, newest first. An empty
	// result means the upstream has nothing older to offer.
	FetchWindow(ctx context.Context, req model.WindowRequest) ([]model.Bar, error)
	// Disconnected yields one error when the session is lost unexpectedly.
	// It never fires because of Close.
	Disconnected() <-chan error
	Close() error
}
