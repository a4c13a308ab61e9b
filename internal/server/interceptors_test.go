package server

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recvStream struct {
	grpc.ServerStream
	errs []error
}

func (s *recvStream) RecvMsg(any) error {
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func TestRequestStreamRecvMsg(t *testing.T) {
	cardinality := status.Error(codes.Internal, "cardinality violation: received no request message from non-client-streaming RPC")
	cases := map[string]struct {
		errs []error
		want []codes.Code
	}{
		"eof before request":         {errs: []error{io.EOF}, want: []codes.Code{codes.InvalidArgument}},
		"cardinality before request": {errs: []error{cardinality}, want: []codes.Code{codes.InvalidArgument}},
		"cancelled":                  {errs: []error{status.Error(codes.Canceled, "context canceled")}, want: []codes.Code{codes.Canceled}},
		"deadline":                   {errs: []error{status.Error(codes.DeadlineExceeded, "deadline exceeded")}, want: []codes.Code{codes.DeadlineExceeded}},
		"after request":              {errs: []error{nil, cardinality}, want: []codes.Code{codes.OK, codes.Internal}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rs := &requestStream{ServerStream: &recvStream{errs: tc.errs}}
			for _, want := range tc.want {
				assert.Equal(t, want, status.Code(rs.RecvMsg(nil)))
			}
		})
	}
}

func TestRequestStreamKeepsContextErrors(t *testing.T) {
	rs := &requestStream{ServerStream: &recvStream{errs: []error{context.Canceled}}}
	assert.ErrorIs(t, rs.RecvMsg(nil), context.Canceled)
}

func TestRequireRequestSkipsClientStreams(t *testing.T) {
	ss := &recvStream{errs: []error{io.EOF}}
	var got grpc.ServerStream
	err := RequireRequest()(nil, ss, &grpc.StreamServerInfo{IsClientStream: true, IsServerStream: true},
		func(_ any, s grpc.ServerStream) error {
			got = s
			return s.RecvMsg(nil)
		})
	assert.Same(t, ss, got)
	assert.Equal(t, io.EOF, err)
}
