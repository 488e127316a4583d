package appctx

import (
	"context"
)

// traceKey is the context key for trace info.
type traceKey struct{}

// Trace carries correlation identifiers for logging.
type Trace struct {
	TraceID   string
	RequestID string
}

// WithTrace stores trace info in context.
func WithTrace(ctx context.Context, trace Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace info from context, or nil if absent.
func GetTrace(ctx context.Context) *Trace {
	if t, ok := ctx.Value(traceKey{}).(Trace); ok {
		return &t
	}
	return nil
}
