package saver

import "barbridge/internal/model"

// Record is the flat on-disk row. Field names follow the short aggregate keys
// (t,o,h,l,c,v,vw,n) so files stay compatible across formats.
type Record struct {
	T  int64   `json:"t" parquet:"t"`
	O  float64 `json:"o" parquet:"o"`
	H  float64 `json:"h" parquet:"h"`
	L  float64 `json:"l" parquet:"l"`
	C  float64 `json:"c" parquet:"c"`
	V  float64 `json:"v" parquet:"v"`
	VW float64 `json:"vw" parquet:"vw"`
	N  int64   `json:"n" parquet:"n"`
}

// NewRecord flattens b; T is the bar start in Unix milliseconds.
func NewRecord(b model.Bar) Record {
	return Record{
		T:  b.Time.UnixMilli(),
		O:  b.Open,
		H:  b.High,
		L:  b.Low,
		C:  b.Close,
		V:  b.Volume,
		VW: b.VWAP,
		N:  b.Trades,
	}
}

func toRecords(bars []model.Bar) []Record {
	out := make([]Record, len(bars))
	for i, b := range bars {
		out[i] = NewRecord(b)
	}
	return out
}
