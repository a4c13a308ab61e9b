package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/export"
	"barbridge/internal/saver"
	"barbridge/internal/slogx"
)

type options struct {
	Addr      string
	Tickers   string
	OutDir    string
	Format    string
	Workers   int
	End       time.Time
	Exchange  string
	Currency  string
	Timeout   time.Duration
	Heartbeat time.Duration
	LogLevel  string
}

func loadOptions(args []string) (*options, error) {
	fs := pflag.NewFlagSet("barexport", pflag.ContinueOnError)
	fs.String("addr", "localhost:8443", "bridge gRPC address")
	fs.String("tickers", "tickers.txt", "ticker list (.txt or .json)")
	fs.String("out-dir", "data", "directory for packets and run reports")
	fs.String("format", "csv", "packet format: csv | json | parquet")
	fs.Int("workers", 4, "concurrent ticker streams")
	fs.String("end", "", "RFC3339 end instant, empty for latest")
	fs.String("exchange", "", "exchange hint passed to the bridge")
	fs.String("currency", "", "currency hint passed to the bridge")
	fs.Duration("timeout", 30*time.Minute, "per-ticker stream timeout, 0 for none")
	fs.Duration("heartbeat", 30*time.Second, "progress log interval")
	fs.String("log-level", "info", "debug | info | warn | error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("BAREXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	o := &options{
		Addr:      v.GetString("addr"),
		Tickers:   v.GetString("tickers"),
		OutDir:    v.GetString("out-dir"),
		Format:    v.GetString("format"),
		Workers:   v.GetInt("workers"),
		Exchange:  v.GetString("exchange"),
		Currency:  v.GetString("currency"),
		Timeout:   v.GetDuration("timeout"),
		Heartbeat: v.GetDuration("heartbeat"),
		LogLevel:  v.GetString("log-level"),
	}
	if s := strings.TrimSpace(v.GetString("end")); s != "" {
		end, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("parse --end: %w", err)
		}
		o.End = end.UTC()
	}
	if o.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1")
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	slog.SetDefault(slogx.NewDefault("info"))
	o, err := loadOptions(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		slog.Error("invalid options", "error", err)
		return 1
	}
	logger := slogx.NewDefault(o.LogLevel)
	slog.SetDefault(logger)

	tickers, err := export.LoadTickers(o.Tickers)
	if err != nil {
		slog.Error("failed to get tickers", "error", err)
		return 1
	}
	ps, err := saver.NewPacketSaver(o.Format)
	if err != nil {
		slog.Error("invalid format", "error", err)
		return 1
	}
	conn, err := export.Dial(o.Addr)
	if err != nil {
		slog.Error("failed to connect", "error", err)
		return 1
	}
	defer conn.Close()

	slog.Info("export", "addr", o.Addr, "tickers", len(tickers), "workers", o.Workers, "dir", o.OutDir, "format", ps.Extension())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := export.New(barbridgepb.NewBarLoaderClient(conn), ps, export.Config{
		OutDir:    o.OutDir,
		Workers:   o.Workers,
		End:       o.End,
		Exchange:  o.Exchange,
		Currency:  o.Currency,
		Timeout:   o.Timeout,
		Heartbeat: o.Heartbeat,
		LogLevel:  slogx.ParseLevel(o.LogLevel),
	}, logger)
	s, err := e.Run(ctx, tickers)
	if err != nil {
		slog.Error("export interrupted", "error", err, "success", s.Success, "failed", s.Failed)
		return 1
	}
	slog.Info("export done", "success", s.Success, "failed", s.Failed, "bars", s.Bars)
	return 0
}
