//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"barbridge/internal/app"
	"barbridge/internal/server"
)

// App holds application dependencies built by Wire.
type App struct {
	Config     *app.Config
	Logger     *slog.Logger
	Supervisor *app.Supervisor
}

// InitializeApp builds the upstream session, gRPC server and supervisor via Wire.
// The supervisor closes the upstream when Run returns.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideDataProvider,
		app.ProvidePaginationConfig,
		app.ProvideLoop,
		app.ProvideHealth,
		server.NewHandler,
		server.New,
		app.NewSupervisor,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
