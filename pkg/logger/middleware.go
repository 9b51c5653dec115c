package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader carries the request ID over HTTP and gRPC metadata.
const RequestIDHeader = "X-Request-ID"

// RequestID returns a Gin middleware that reuses the caller's X-Request-ID or
// generates a new one, stores it in the request context and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDInterceptor is a gRPC interceptor that adds a request ID to the context
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		var id string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 && len(v[0]) <= 128 {
				id = v[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
		return handler(ContextWithRequestID(ctx, id), req)
	}
}
