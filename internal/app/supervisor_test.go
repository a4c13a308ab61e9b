package app

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/model"
	"barbridge/internal/pagination"
	"barbridge/internal/provider"
	"barbridge/internal/provider/providertest"
	"barbridge/internal/server"
	"barbridge/internal/slogx"
)

var end = time.Date(2024, 2, 14, 21, 0, 0, 0, time.UTC)

type fixture struct {
	sup  *Supervisor
	fake *providertest.Fake
	conn *grpc.ClientConn
}

func newFixture(t *testing.T, fake *providertest.Fake, grace time.Duration) *fixture {
	t.Helper()
	logger := slogx.Discard()
	loop := pagination.New(fake, pagination.Config{
		Window:      10 * time.Minute,
		Granularity: time.Minute,
		What:        model.WhatTrades,
	}, logger)
	h := server.NewHandler(loop, logger)
	hs := ProvideHealth()
	srv := server.New(h, hs, logger)

	cfg := &Config{HTTPHost: "127.0.0.1", HTTPPort: 8443, ShutdownTimeout: grace}
	sup := NewSupervisor(cfg, fake, srv, h, hs, logger)
	lis := bufconn.Listen(1 << 20)
	sup.listen = func(network, address string) (net.Listener, error) {
		assert.Equal(t, "tcp", network)
		assert.Equal(t, "127.0.0.1:8443", address)
		return lis, nil
	}

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &fixture{sup: sup, fake: fake, conn: conn}
}

func (f *fixture) start(t *testing.T, ctx context.Context) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- f.sup.Run(ctx) }()
	require.Eventually(t, func() bool { return f.sup.State() == StateServing }, 2*time.Second, 5*time.Millisecond)
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop")
		return nil
	}
}

func TestSupervisorServesAndStopsOnCancel(t *testing.T) {
	fake := providertest.NewFake(end, 25, time.Minute)
	f := newFixture(t, fake, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := f.start(t, ctx)

	hc := healthpb.NewHealthClient(f.conn)
	resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{Service: server.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	stream, err := barbridgepb.NewBarLoaderClient(f.conn).GetStockHistoricalData(context.Background(),
		&barbridgepb.GetStockHistoricalDataRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	n := 0
	for {
		if _, err := stream.Recv(); err != nil {
			break
		}
		n++
	}
	assert.Equal(t, 25, n)

	cancel()
	require.NoError(t, wait(t, done))
	assert.Equal(t, StateStopped, f.sup.State())
	assert.True(t, fake.Closed())
}

func TestSupervisorUpstreamLoss(t *testing.T) {
	fake := providertest.NewFake(end, 25, time.Minute)
	fake.Block = make(chan struct{})
	f := newFixture(t, fake, 2*time.Second)
	done := f.start(t, context.Background())

	stream, err := barbridgepb.NewBarLoaderClient(f.conn).GetStockHistoricalData(context.Background(),
		&barbridgepb.GetStockHistoricalDataRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(fake.Requests()) == 1 }, 2*time.Second, 5*time.Millisecond)

	fake.Lose(errors.New("socket closed"))

	_, err = stream.Recv()
	assert.Equal(t, codes.Unavailable, status.Code(err))

	err = wait(t, done)
	assert.ErrorIs(t, err, ErrUpstreamLost)
	assert.ErrorIs(t, err, provider.ErrSessionLost)
	assert.ErrorContains(t, err, "socket closed")
	assert.True(t, fake.Closed())
}

func TestSupervisorLossWithoutCause(t *testing.T) {
	fake := providertest.NewFake(end, 5, time.Minute)
	f := newFixture(t, fake, time.Second)
	done := f.start(t, context.Background())

	fake.Lose(nil)
	err := wait(t, done)
	assert.ErrorIs(t, err, ErrUpstreamLost)
	assert.ErrorIs(t, err, provider.ErrSessionLost)
}

func TestSupervisorForcesStopAfterGrace(t *testing.T) {
	fake := providertest.NewFake(end, 25, time.Minute)
	fake.Block = make(chan struct{})
	f := newFixture(t, fake, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := f.start(t, ctx)

	stream, err := barbridgepb.NewBarLoaderClient(f.conn).GetStockHistoricalData(context.Background(),
		&barbridgepb.GetStockHistoricalDataRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(fake.Requests()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, wait(t, done))
	_, err = stream.Recv()
	assert.Error(t, err)
	assert.True(t, fake.Closed())
}

func TestSupervisorZeroGraceWaitsForStreams(t *testing.T) {
	fake := providertest.NewFake(end, 5, time.Minute)
	fake.Block = make(chan struct{})
	f := newFixture(t, fake, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := f.start(t, ctx)

	stream, err := barbridgepb.NewBarLoaderClient(f.conn).GetStockHistoricalData(context.Background(),
		&barbridgepb.GetStockHistoricalDataRequest{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(fake.Requests()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return f.sup.State() == StateShuttingDown }, 2*time.Second, 5*time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("supervisor stopped with a stream in flight: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(fake.Block)
	n := 0
	for {
		if _, err := stream.Recv(); err != nil {
			assert.Equal(t, io.EOF, err)
			break
		}
		n++
	}
	assert.Equal(t, 5, n, "in-flight stream finishes naturally")
	require.NoError(t, wait(t, done))
	assert.True(t, fake.Closed())
}

func TestSupervisorConnectFailure(t *testing.T) {
	fake := providertest.NewFake(end, 5, time.Minute)
	f := newFixture(t, fake, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.sup.Run(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUpstreamLost)
	assert.True(t, fake.Closed())
	assert.Equal(t, StateStopped, f.sup.State())
}

func TestSupervisorListenFailure(t *testing.T) {
	fake := providertest.NewFake(end, 5, time.Minute)
	f := newFixture(t, fake, time.Second)
	f.sup.listen = func(string, string) (net.Listener, error) {
		return nil, errors.New("address in use")
	}

	err := f.sup.Run(context.Background())
	assert.ErrorContains(t, err, "address in use")
	assert.True(t, fake.Closed())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "serving", StateServing.String())
	assert.Equal(t, "shutting-down", StateShuttingDown.String())
	assert.Equal(t, "unknown", State(42).String())
}
