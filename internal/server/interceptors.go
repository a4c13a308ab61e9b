package server

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func peerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return ""
}

// UnaryLogger logs every unary call with its status code and duration.
func UnaryLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
			logger.Debug("rpc", "method", info.FullMethod, "peer", peerAddr(ctx), "code", status.Code(err).String(), "elapsed", time.Since(start))
		}()
		return handler(ctx, req)
	}
}

// StreamLogger logs every streaming call and turns handler panics into Internal.
func StreamLogger(logger *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
			logger.Info("stream closed", "method", info.FullMethod, "peer", peerAddr(ss.Context()), "code", status.Code(err).String(), "elapsed", time.Since(start))
		}()
		return handler(srv, ss)
	}
}

// RequireRequest rejects server-streaming calls whose client half-closed
// without sending the request message.
func RequireRequest() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if info.IsClientStream || !info.IsServerStream {
			return handler(srv, ss)
		}
		return handler(srv, &requestStream{ServerStream: ss})
	}
}

type requestStream struct {
	grpc.ServerStream
	received bool
}

// RecvMsg maps a missing first message onto InvalidArgument. Depending on the
// grpc-go version the transport reports it as io.EOF or as an Internal
// cardinality violation; cancellation and deadline errors pass through.
func (s *requestStream) RecvMsg(m any) error {
	err := s.ServerStream.RecvMsg(m)
	if err == nil {
		s.received = true
		return nil
	}
	if s.received || isContextErr(err) {
		return err
	}
	return status.Error(codes.InvalidArgument, "request message is required")
}

func isContextErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Canceled, codes.DeadlineExceeded:
		return true
	}
	return false
}
