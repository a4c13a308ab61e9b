// Package export is the bridge client: it streams bars for a ticker list over
// gRPC and saves one packet per ticker.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/codec"
	"barbridge/internal/model"
	"barbridge/internal/saver"
	"barbridge/internal/slogx"
)

// ErrNoData marks a ticker whose stream ended without any bar.
var ErrNoData = errors.New("no data")

// Config controls one export run.
type Config struct {
	OutDir    string
	Workers   int
	End       time.Time // zero asks the bridge for the latest bars
	Exchange  string
	Currency  string
	Timeout   time.Duration // per ticker, 0 for none
	Heartbeat time.Duration
	LogLevel  slog.Level
}

// Summary is the outcome of Run.
type Summary struct {
	Success  int
	Failed   int
	Bars     int
	Tickers  []string
	Failures []Failure
}

type result struct {
	ticker string
	bars   int
	err    error
}

type tally struct {
	mu sync.Mutex
	s  Summary
}

func (t *tally) add(r result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r.err != nil {
		t.s.Failed++
		t.s.Failures = append(t.s.Failures, Failure{Ticker: r.ticker, Reason: r.err.Error()})
		return
	}
	t.s.Success++
	t.s.Bars += r.bars
	t.s.Tickers = append(t.s.Tickers, r.ticker)
}

func (t *tally) snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.s
	s.Tickers = append([]string(nil), t.s.Tickers...)
	s.Failures = append([]Failure(nil), t.s.Failures...)
	return s
}

// Dial opens a plaintext client connection to the bridge.
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn, nil
}

// Exporter fans a ticker list out over workers sharing one client connection.
type Exporter struct {
	client barbridgepb.BarLoaderClient
	saver  saver.PacketSaver
	cfg    Config
	logger *slog.Logger
	out    io.Writer
}

func New(client barbridgepb.BarLoaderClient, s saver.PacketSaver, cfg Config, logger *slog.Logger) *Exporter {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{client: client, saver: s, cfg: cfg, logger: logger, out: os.Stdout}
}

// SetOutput redirects worker log lines; stdout by default.
func (e *Exporter) SetOutput(w io.Writer) { e.out = w }

// Fetch streams every bar for ticker and returns them ascending without
// duplicate instants. Paged responses arrive newest page first, so the
// result is always re-sorted.
func (e *Exporter) Fetch(ctx context.Context, ticker string) ([]model.Bar, error) {
	req := &barbridgepb.GetStockHistoricalDataRequest{
		Symbol:   ticker,
		Exchange: e.cfg.Exchange,
		Currency: e.cfg.Currency,
	}
	if !e.cfg.End.IsZero() {
		req.EndDate = codec.Timestamp(e.cfg.End)
	}
	stream, err := e.client.GetStockHistoricalData(ctx, req)
	if err != nil {
		return nil, err
	}
	var bars []model.Bar
	for {
		pb, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return bars, err
		}
		b, _ := codec.FromProto(pb)
		bars = append(bars, b)
	}
	sort.Stable(model.ByTime(bars))
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Run exports every ticker. Per-ticker failures are collected in the summary;
// the returned error is non-nil only when ctx ends the run early.
func (e *Exporter) Run(ctx context.Context, tickers []string) (Summary, error) {
	if err := os.MkdirAll(e.cfg.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create out dir: %w", err)
	}

	logs := make(chan string, 2048)
	lw := slogx.NewChanWriter(logs)
	logger := slogx.NewChanLogger(lw, e.cfg.LogLevel)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(e.out, logs)
	}()

	pending := make(chan string, len(tickers))
	for _, t := range tickers {
		pending <- t
	}
	close(pending)

	var progress tally
	results := make(chan result, e.cfg.Workers)
	var resWg sync.WaitGroup
	resWg.Add(1)
	go func() {
		defer resWg.Done()
		for r := range results {
			progress.add(r)
		}
	}()

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, e.cfg.Heartbeat, len(tickers), &progress, logger)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.cfg.Workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case ticker, ok := <-pending:
					if !ok {
						return nil
					}
					results <- e.exportOne(gctx, ticker, logger)
				}
			}
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	close(results)
	resWg.Wait()
	stopHeartbeat()
	hbWg.Wait()

	s := progress.snapshot()
	logger.Info("summary", "total_bars", s.Bars, "success", s.Success, "failed", s.Failed)
	if len(s.Failures) > 0 {
		logger.Info("summary failed", "count", len(s.Failures), "reasons", joinFailures(s.Failures))
	}
	close(logs)
	logWg.Wait()
	if n := lw.Dropped(); n > 0 {
		e.logger.Warn("log lines dropped", "count", n)
	}

	if rerr := writeRunReport(e.cfg.OutDir, s.Tickers, s.Failures); rerr != nil {
		e.logger.Warn("could not write run report", "error", rerr)
	}
	return s, err
}

func (e *Exporter) exportOne(ctx context.Context, ticker string, logger *slog.Logger) result {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	bars, err := e.Fetch(ctx, ticker)
	if err == nil && len(bars) == 0 {
		err = ErrNoData
	}
	if err == nil {
		path := filepath.Join(e.cfg.OutDir, packetName(ticker, e.saver.Extension()))
		if err = e.saver.Save(bars, path); err != nil {
			err = fmt.Errorf("save %s: %w", path, err)
		}
	}
	if err != nil {
		logger.Error("export fail", "ticker", ticker, "reason", err)
		return result{ticker: ticker, err: err}
	}
	logger.Info("export ok", "ticker", ticker, "bars", len(bars),
		"from", bars[0].Time.Format(time.RFC3339), "to", bars[len(bars)-1].Time.Format(time.RFC3339),
		"took", time.Since(start).Round(time.Millisecond))
	return result{ticker: ticker, bars: len(bars)}
}

// packetName turns a ticker into a file name inside the out dir: BTC/USDT -> BTC-USDT.csv.
func packetName(ticker, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, ticker)
	if name == "" || name == "." || name == ".." {
		name = "_"
	}
	return name + "." + ext
}
