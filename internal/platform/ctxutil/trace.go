package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries per-request correlation data. ClientIP is the
// resolved writer address (CF-Connecting-IP when present) used by the
// rate limiter and the request log.
type TraceData struct {
	TraceID   string
	RequestID string
	ClientIP  string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}
