// Package server exposes the BarLoader gRPC service.
package server

import (
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"barbridge/internal/api/barbridgepb"
)

// ServiceName is the health-check name of the bar service.
var ServiceName = barbridgepb.BarLoader_ServiceDesc.ServiceName

// New builds the gRPC server with BarLoader, health and reflection registered.
func New(handler *Handler, hs *health.Server, logger *slog.Logger) *grpc.Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryLogger(logger)),
		grpc.ChainStreamInterceptor(StreamLogger(logger), RequireRequest()),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             10 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    2 * time.Minute,
			Timeout: 20 * time.Second,
		}),
	)
	barbridgepb.RegisterBarLoaderServer(srv, handler)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv
}

// SetServing flips the overall and per-service health status together.
func SetServing(hs *health.Server, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}
