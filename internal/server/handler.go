package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"barbridge/internal/api/barbridgepb"
	"barbridge/internal/codec"
	"barbridge/internal/model"
	"barbridge/internal/pagination"
)

// Handler serves BarLoader by driving one pagination loop per call.
type Handler struct {
	barbridgepb.UnimplementedBarLoaderServer

	loop   *pagination.Loop
	logger *slog.Logger

	mu   sync.RWMutex
	base context.Context
}

func NewHandler(loop *pagination.Loop, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{loop: loop, logger: logger, base: context.Background()}
}

// SetBaseContext ties every stream to ctx: once it is cancelled, in-flight
// streams stop at their next fetch or send.
func (h *Handler) SetBaseContext(ctx context.Context) {
	h.mu.Lock()
	h.base = ctx
	h.mu.Unlock()
}

func (h *Handler) baseContext() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.base
}

func (h *Handler) GetStockHistoricalData(req *barbridgepb.GetStockHistoricalDataRequest, stream grpc.ServerStreamingServer[barbridgepb.Bar]) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	inst, err := model.NewInstrument(req.GetSymbol(), req.GetExchange(), req.GetCurrency())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	var end time.Time
	endLabel := "latest"
	if ts := req.GetEndDate(); !codec.IsUnset(ts) {
		if err := ts.CheckValid(); err != nil {
			return status.Errorf(codes.InvalidArgument, "end_date: %v", err)
		}
		end = codec.Time(ts)
		endLabel = end.Format(time.RFC3339)
	}

	base := h.baseContext()
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	stop := context.AfterFunc(base, cancel)
	defer stop()

	logger := h.logger.With("instrument", inst.String(), "end", endLabel)
	logger.Info("historical data request")

	start := time.Now()
	granularity := h.loop.Config().Granularity
	stats, err := h.loop.Run(ctx, inst, end, func(b model.Bar) error {
		return stream.Send(codec.ToProto(b, granularity))
	})
	if err != nil {
		st := toStatus(base, err)
		logger.Warn("historical data aborted",
			"pages", stats.Pages,
			"bars", stats.Bars,
			"elapsed", time.Since(start),
			"code", st.Code().String(),
			"error", err,
		)
		return st.Err()
	}
	logger.Info("historical data done",
		"pages", stats.Pages,
		"bars", stats.Bars,
		"oldest", stats.Oldest,
		"newest", stats.Newest,
		"elapsed", time.Since(start),
	)
	return nil
}

// toStatus maps a loop failure onto the status the caller sees.
func toStatus(base context.Context, err error) *status.Status {
	if base.Err() != nil {
		msg := "upstream session lost"
		if cause := context.Cause(base); cause != nil && !errors.Is(cause, context.Canceled) {
			msg = cause.Error()
		}
		return status.New(codes.Unavailable, msg)
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err)
	case errors.Is(err, pagination.ErrStalled):
		return status.New(codes.Internal, err.Error())
	}
	if st, ok := status.FromError(err); ok {
		return st
	}
	return status.New(codes.Unavailable, err.Error())
}
