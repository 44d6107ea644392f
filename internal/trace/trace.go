package trace

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info holds tracing data for one inbound HTTP request.
type Info struct {
	RequestID string
}

// GenerateID returns a fresh request id.
func GenerateID() string {
	return uuid.NewString()
}

// WithRequestID stores requestID in a derived context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyTrace, &Info{RequestID: requestID})
}

// RequestIDFromContext returns the request id, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	info, _ := ctx.Value(ctxKeyTrace).(*Info)
	if info == nil {
		return ""
	}
	return info.RequestID
}
