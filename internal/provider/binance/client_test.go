package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barbridge/internal/model"
)

func kline(open time.Time) string {
	ms := open.UnixMilli()
	// volume 10, quote volume 1005 -> vwap 100.5
	return fmt.Sprintf(`[%d,"100.0","101.0","99.5","100.7","10.0",%d,"1005.0",42,"5.0","502.5","0"]`, ms, ms+59999)
}

func TestFetchWindowMapsKlines(t *testing.T) {
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1m", q.Get("interval"))
		assert.Equal(t, "1000", q.Get("limit"))
		assert.Equal(t, strconv.FormatInt(end.UnixMilli()-1, 10), q.Get("endTime"))
		assert.Empty(t, q.Get("startTime"))
		fmt.Fprintf(w, "[%s,%s,%s]", kline(end.Add(-3*time.Minute)), kline(end.Add(-2*time.Minute)), kline(end.Add(-time.Minute)))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	defer c.Close()

	bars, err := c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "BTC", Exchange: "BINANCE", Currency: "USDT"},
		End:         end,
		Window:      24 * time.Hour,
		Granularity: time.Minute,
		RTHOnly:     true,
	})
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, end.Add(-time.Minute), bars[0].Time)
	assert.Equal(t, end.Add(-3*time.Minute), bars[2].Time)
	assert.Equal(t, 100.7, bars[0].Close)
	assert.Equal(t, 10.0, bars[0].Volume)
	assert.Equal(t, int64(42), bars[0].Trades)
	assert.InDelta(t, 100.5, bars[0].VWAP, 1e-9)
}

func TestFetchWindowLatestHasNoEndTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("endTime"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	bars, err := c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "ETH", Currency: "USD"},
		Granularity: time.Minute,
	})
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestFetchWindowErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "NOPE", Currency: "USDT"},
		Granularity: time.Minute,
	})
	assert.Error(t, err)

	_, err = c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "BTC", Currency: "USDT"},
		Granularity: 7 * time.Minute,
	})
	assert.ErrorContains(t, err, "no interval")
}

func TestFetchWindowRejectsMalformedKline(t *testing.T) {
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bad := end.Add(-2 * time.Minute).UnixMilli()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[%s,[%d,"100.0","n/a","99.5","100.7","10.0",%d,"1005.0",42,"5.0","502.5","0"]]`,
			kline(end.Add(-3*time.Minute)), bad, bad+59999)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	bars, err := c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "BTC", Currency: "USDT"},
		End:         end,
		Granularity: time.Minute,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "high")
	assert.ErrorContains(t, err, `"n/a"`)
	assert.Nil(t, bars)
}

func TestFetchWindowRejectsNonTradeSeries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.FetchWindow(context.Background(), model.WindowRequest{
		Instrument:  model.Instrument{Symbol: "BTC", Currency: "USDT"},
		Granularity: time.Minute,
		What:        model.WhatMidpoint,
	})
	assert.ErrorIs(t, err, model.ErrUnsupportedWhat)
	assert.Zero(t, calls)
}

func TestToBarZeroVolume(t *testing.T) {
	bar, err := toBar(&gobinance.Kline{OpenTime: 0, Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "0", QuoteAssetVolume: "0"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, bar.VWAP)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ping", r.URL.Path)
		_, _ = w.Write([]byte("{}"))
	}))
	c := NewClient(Config{BaseURL: srv.URL}, nil)
	require.NoError(t, c.Ping(context.Background()))
	srv.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestPairSymbol(t *testing.T) {
	for _, tt := range []struct {
		inst model.Instrument
		want string
	}{
		{model.Instrument{Symbol: "BTC", Currency: "USDT"}, "BTCUSDT"},
		{model.Instrument{Symbol: "BTC", Currency: "USD"}, "BTCUSDT"},
		{model.Instrument{Symbol: "BTCUSDT", Currency: "USD"}, "BTCUSDT"},
		{model.Instrument{Symbol: "ETH/BTC", Currency: "BTC"}, "ETHBTC"},
	} {
		assert.Equal(t, tt.want, PairSymbol(tt.inst))
	}
}
