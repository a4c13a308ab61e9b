package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"barbridge/internal/provider"
	"barbridge/internal/server"
)

// ErrUpstreamLost is returned by Run when the upstream session drops while serving.
// The process must exit non-zero.
var ErrUpstreamLost = errors.New("upstream connection lost")

// State is the supervisor lifecycle position.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateServing
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateServing:
		return "serving"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Supervisor owns the upstream session and the gRPC server for the process lifetime.
type Supervisor struct {
	addr            string
	shutdownTimeout time.Duration
	dp              provider.DataProvider
	srv             *grpc.Server
	handler         *server.Handler
	health          *health.Server
	logger          *slog.Logger

	state  atomic.Int32
	listen func(network, address string) (net.Listener, error)
}

func NewSupervisor(cfg *Config, dp provider.DataProvider, srv *grpc.Server, handler *server.Handler, hs *health.Server, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		addr:            cfg.Addr(),
		shutdownTimeout: cfg.ShutdownTimeout,
		dp:              dp,
		srv:             srv,
		handler:         handler,
		health:          hs,
		logger:          logger,
		listen:          net.Listen,
	}
}

func (s *Supervisor) State() State { return State(s.state.Load()) }

func (s *Supervisor) setState(st State) {
	prev := State(s.state.Swap(int32(st)))
	if prev != st {
		s.logger.Debug("state", "from", prev.String(), "to", st.String())
	}
}

// Run connects upstream, serves until ctx is cancelled or the upstream is lost,
// then stops the server and closes the upstream. It returns nil after a
// cancellation-driven shutdown and ErrUpstreamLost after a session loss.
func (s *Supervisor) Run(ctx context.Context) error {
	name := s.dp.GetName()
	defer s.setState(StateStopped)

	s.setState(StateConnecting)
	s.logger.Info("connecting upstream", "provider", name)
	if err := s.dp.Connect(ctx); err != nil {
		s.setState(StateDisconnected)
		s.closeUpstream()
		return fmt.Errorf("connect %s: %w", name, err)
	}
	s.setState(StateConnected)

	lis, err := s.listen("tcp", s.addr)
	if err != nil {
		s.closeUpstream()
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	base, cancelBase := context.WithCancelCause(context.Background())
	defer cancelBase(nil)
	s.handler.SetBaseContext(base)

	server.SetServing(s.health, true)
	s.setState(StateServing)
	s.logger.Info("serving", "addr", lis.Addr().String(), "provider", name)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			s.setState(StateShuttingDown)
			s.logger.Info("shutting down", "grace", s.shutdownTimeout)
			s.health.Shutdown()
			s.stopServer()
			return nil
		case lostErr := <-s.dp.Disconnected():
			lostErr = sessionLost(lostErr)
			s.setState(StateDisconnected)
			s.logger.Error("upstream disconnected", "provider", name, "error", lostErr)
			s.health.Shutdown()
			cancelBase(lostErr)
			s.stopServer()
			return fmt.Errorf("%w: %w", ErrUpstreamLost, lostErr)
		}
	})
	err = g.Wait()
	s.closeUpstream()
	return err
}

// stopServer lets in-flight streams finish, then forces the rest closed.
// A zero shutdownTimeout waits for every stream without limit.
func (s *Supervisor) stopServer() {
	if s.shutdownTimeout <= 0 {
		s.srv.GracefulStop()
		return
	}
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()
	timer := time.NewTimer(s.shutdownTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		s.logger.Warn("graceful stop timed out, closing streams")
		s.srv.Stop()
		<-done
	}
}

func (s *Supervisor) closeUpstream() {
	if err := s.dp.Close(); err != nil {
		s.logger.Warn("close upstream", "provider", s.dp.GetName(), "error", err)
	}
}

func sessionLost(err error) error {
	switch {
	case err == nil:
		return provider.ErrSessionLost
	case errors.Is(err, provider.ErrSessionLost):
		return err
	default:
		return fmt.Errorf("%w: %w", provider.ErrSessionLost, err)
	}
}
