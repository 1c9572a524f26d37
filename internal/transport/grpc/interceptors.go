package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
)

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "gRPC request failed",
				"method", info.FullMethod,
				"duration", time.Since(start),
				"error", err,
			)
		} else {
			logger.DebugContext(ctx, "gRPC request completed",
				"method", info.FullMethod,
				"duration", time.Since(start),
			)
		}
		return resp, err
	}
}
