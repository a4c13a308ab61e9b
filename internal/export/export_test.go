package export

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/codec"
	"barbridge/internal/model"
	"barbridge/internal/saver"
	"barbridge/internal/slogx"
)

var t0 = time.Date(2024, 2, 14, 14, 30, 0, 0, time.UTC)

// pagedServer answers like the bridge in paged order: newest page first,
// each page ascending, with one instant repeated across the page boundary.
type pagedServer struct {
	barbridgepb.UnimplementedBarLoaderServer
	requests chan *barbridgepb.GetStockHistoricalDataRequest
}

func (s *pagedServer) GetStockHistoricalData(req *barbridgepb.GetStockHistoricalDataRequest, stream grpc.ServerStreamingServer[barbridgepb.Bar]) error {
	if s.requests != nil {
		s.requests <- req
	}
	switch req.GetSymbol() {
	case "BAD":
		return status.Error(codes.Unavailable, "upstream session lost")
	case "EMPTY":
		return nil
	}
	pages := [][]int{{3, 4, 5}, {0, 1, 2, 3}}
	for _, page := range pages {
		for _, i := range page {
			b := model.Bar{Time: t0.Add(time.Duration(i) * time.Minute), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, Trades: 3, VWAP: 1.2}
			if err := stream.Send(codec.ToProto(b, time.Minute)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newClient(t *testing.T, srv *pagedServer) barbridgepb.BarLoaderClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	barbridgepb.RegisterBarLoaderServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return barbridgepb.NewBarLoaderClient(conn)
}

func TestFetchSortsAndDedupes(t *testing.T) {
	srv := &pagedServer{requests: make(chan *barbridgepb.GetStockHistoricalDataRequest, 1)}
	end := t0.Add(time.Hour)
	e := New(newClient(t, srv), saver.CSVSaver{}, Config{End: end, Exchange: "SMART", Currency: "USD"}, slogx.Discard())

	bars, err := e.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 6)
	for i, b := range bars {
		assert.Equal(t, t0.Add(time.Duration(i)*time.Minute), b.Time)
	}

	req := <-srv.requests
	assert.Equal(t, "AAPL", req.GetSymbol())
	assert.Equal(t, "SMART", req.GetExchange())
	assert.True(t, codec.Time(req.GetEndDate()).Equal(end))
}

func TestFetchWithoutEndLeavesEndUnset(t *testing.T) {
	srv := &pagedServer{requests: make(chan *barbridgepb.GetStockHistoricalDataRequest, 1)}
	e := New(newClient(t, srv), saver.CSVSaver{}, Config{}, slogx.Discard())
	_, err := e.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, (<-srv.requests).GetEndDate())
}

func TestRunWritesPacketsAndReport(t *testing.T) {
	dir := t.TempDir()
	e := New(newClient(t, &pagedServer{}), saver.JSONSaver{}, Config{OutDir: dir, Workers: 2}, slogx.Discard())
	var logs bytes.Buffer
	e.SetOutput(&logs)

	s, err := e.Run(context.Background(), []string{"AAPL", "BAD", "MSFT", "EMPTY"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Success)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 12, s.Bars)
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, s.Tickers)

	data, err := os.ReadFile(filepath.Join(dir, "AAPL.json"))
	require.NoError(t, err)
	var rows []saver.Record
	require.NoError(t, json.Unmarshal(data, &rows))
	assert.Len(t, rows, 6)
	assert.NoFileExists(t, filepath.Join(dir, "BAD.json"))

	data, err = os.ReadFile(filepath.Join(dir, failedReport))
	require.NoError(t, err)
	var failed []Failure
	require.NoError(t, json.Unmarshal(data, &failed))
	require.Len(t, failed, 2)
	reasons := map[string]string{}
	for _, f := range failed {
		reasons[f.Ticker] = f.Reason
	}
	assert.Contains(t, reasons["BAD"], "upstream session lost")
	assert.Equal(t, ErrNoData.Error(), reasons["EMPTY"])
	assert.FileExists(t, filepath.Join(dir, successReport))

	assert.Contains(t, logs.String(), "export ok")
	assert.Contains(t, logs.String(), "msg=summary")
}

func TestRunCancelled(t *testing.T) {
	e := New(newClient(t, &pagedServer{}), saver.CSVSaver{}, Config{OutDir: t.TempDir()}, slogx.Discard())
	e.SetOutput(&bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := e.Run(ctx, []string{"AAPL", "MSFT"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Success)
}

func TestPacketName(t *testing.T) {
	assert.Equal(t, "AAPL.csv", packetName("AAPL", "csv"))
	assert.Equal(t, "BTC-USDT.parquet", packetName("BTC/USDT", "parquet"))
	assert.Equal(t, "A-B-C.json", packetName(`A\B:C`, "json"))
	assert.Equal(t, "_.csv", packetName("..", "csv"))
}

func TestRunSavesSlashedTicker(t *testing.T) {
	dir := t.TempDir()
	e := New(newClient(t, &pagedServer{}), saver.CSVSaver{}, Config{OutDir: dir}, slogx.Discard())
	e.SetOutput(&bytes.Buffer{})

	s, err := e.Run(context.Background(), []string{"BTC/USDT"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Success)
	assert.FileExists(t, filepath.Join(dir, "BTC-USDT.csv"))
}

func TestJoinFailures(t *testing.T) {
	var failed []Failure
	for _, tk := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		failed = append(failed, Failure{Ticker: tk, Reason: "x"})
	}
	assert.Equal(t, "A: x; B: x", joinFailures(failed[:2]))
	assert.Equal(t, "A: x; B: x; C: x; D: x; E: x (+2 more)", joinFailures(failed))
}
