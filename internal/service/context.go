package service

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	sourceKey    contextKey = "source"
)

// Sources recorded in the usage log.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// WithRequestID attaches a request ID to the context for usage logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom extracts the request ID from the context, or "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSource labels where a call originated ("api" or "cli").
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFrom extracts the call source from the context.
func SourceFrom(ctx context.Context) string {
	if v, ok := ctx.Value(sourceKey).(string); ok {
		return v
	}
	return "unknown"
}
