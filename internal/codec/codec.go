// Package codec converts between model bars and the barbridge.v1 wire messages.
package codec

import (
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/model"
)

// Timestamp encodes an instant at nanosecond precision.
func Timestamp(t time.Time) *timestamppb.Timestamp {
	return timestamppb.New(t)
}

// Time decodes a wire timestamp. A nil timestamp decodes to the zero time.
func Time(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

// IsUnset reports whether ts means "most recent": absent or the Unix epoch.
func IsUnset(ts *timestamppb.Timestamp) bool {
	return ts == nil || (ts.GetSeconds() == 0 && ts.GetNanos() == 0)
}

func Duration(d time.Duration) *durationpb.Duration {
	return durationpb.New(d)
}

func FromDuration(d *durationpb.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return d.AsDuration()
}

// ToProto maps a bar one-to-one; duration is the fixed sampling granularity.
func ToProto(b model.Bar, granularity time.Duration) *barbridgepb.Bar {
	return &barbridgepb.Bar{
		Timestamp: Timestamp(b.Time),
		Duration:  Duration(granularity),
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
		Trades:    b.Trades,
		Vwap:      b.VWAP,
	}
}

// FromProto is the inverse of ToProto.
func FromProto(pb *barbridgepb.Bar) (model.Bar, time.Duration) {
	return model.Bar{
		Time:   Time(pb.GetTimestamp()).UTC(),
		Open:   pb.GetOpen(),
		High:   pb.GetHigh(),
		Low:    pb.GetLow(),
		Close:  pb.GetClose(),
		Volume: pb.GetVolume(),
		Trades: pb.GetTrades(),
		VWAP:   pb.GetVwap(),
	}, FromDuration(pb.GetDuration())
}
