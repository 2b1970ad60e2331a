package middleware

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for storing the request ID.
	RequestIDKey contextKey = "request_id"

	// RequestIDHeader carries a caller-chosen request ID.
	RequestIDHeader = "X-Request-Id"
)

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// RequestID returns an interceptor that tags every call with a request ID.
// The ID comes from the X-Request-Id header when present, otherwise a new
// UUID is generated. It is echoed back on successful responses.
func RequestID() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx = context.WithValue(ctx, RequestIDKey, id)

			resp, err := next(ctx, req)
			if err == nil && resp != nil {
				resp.Header().Set(RequestIDHeader, id)
			}
			return resp, err
		}
	}
}
