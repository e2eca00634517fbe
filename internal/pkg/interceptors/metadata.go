package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/allstar-electrical/workorders/internal/pkg/interceptors/constants"
)

// WithRequestMetadata stores the request ID and idempotency key in ctx under
// the typed context keys.
func WithRequestMetadata(ctx context.Context, requestID, idempotencyKey string) context.Context {
	ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)
}

// RequestID returns the request ID carried by ctx, or "".
func RequestID(ctx context.Context) string {
	return lookup(ctx, constants.ContextKeyRequestID, constants.HeaderXRequestId)
}

// IdempotencyKey returns the idempotency key carried by ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	return lookup(ctx, constants.ContextKeyIdempotencyKey, constants.HeaderXIdempotencyKey)
}

// lookup checks the context value first, then incoming gRPC metadata.
func lookup(ctx context.Context, key any, header string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(header); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

// RequestMetadataInterceptor copies x-request-id and x-idempotency-key from
// incoming metadata into the context and logs every unary call.
func RequestMetadataInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		var requestID, idempotencyKey string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}
			if ids := md.Get(constants.HeaderXIdempotencyKey); len(ids) > 0 {
				idempotencyKey = ids[0]
			}
		}
		ctx = WithRequestMetadata(ctx, requestID, idempotencyKey)

		start := time.Now()
		resp, err := handler(ctx, req)
		slog.DebugContext(ctx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"duration", time.Since(start),
			"error", err,
		)
		return resp, err
	}
}
