package model

import "time"

// Bar is one fixed-duration OHLCV sample.
// Shared by providers, the pagination loop and the codec; Time is the bar start in UTC.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Trades int64   // number of trades in the bar
	VWAP   float64 // volume weighted average price
}

// ByTime sorts bars ascending by start instant.
type ByTime []Bar

func (b ByTime) Len() int           { return len(b) }
func (b ByTime) Less(i, j int) bool { return b[i].Time.Before(b[j].Time) }
func (b ByTime) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
