package grpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// peerKey is the peer host without its port, so reconnecting from a new
// source port lands in the same bucket.
func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// CreateRateLimitInterceptor limits unary calls per peer host and logs
// each call with its request size.
func (hs *HealthServer) CreateRateLimitInterceptor() grpc.UnaryServerInterceptor {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		client := peerKey(ctx)
		if !hs.RateLimiterStore.Allow(client) {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
		}

		fields := []zap.Field{zap.String("method", info.FullMethod), zap.String("peer", client)}
		if m, ok := req.(proto.Message); ok {
			fields = append(fields, zap.Int("request_bytes", proto.Size(m)))
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		fields = append(fields, zap.Duration("took", time.Since(start)), zap.Stringer("code", status.Code(err)))
		logger.Debug("Handled unary call", fields...)

		return resp, err
	}
}
