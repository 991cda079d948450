package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type (
	loggerCtxKey    struct{}
	requestIDCtxKey struct{}
)

var nop = zap.NewNop()

// WithContext stores l in ctx for FromContext and L.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext returns the logger stored in ctx. A context without one yields a no-op logger,
// so services never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return nop
}

// WithRequestID records requestID in ctx and attaches a logger carrying it as a field.
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	scoped := l.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDCtxKey{}, requestID)
	return WithContext(ctx, scoped), scoped
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

func activeSpan(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanContextFromContext(ctx)
	return sc, sc.IsValid()
}

// GetTraceID is empty when ctx carries no valid span.
func GetTraceID(ctx context.Context) string {
	if sc, ok := activeSpan(ctx); ok {
		return sc.TraceID().String()
	}
	return ""
}

// WithTraceContext tags l with trace_id and span_id of the span in ctx.
func WithTraceContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc, ok := activeSpan(ctx)
	if !ok {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// L is the logger services use: request scoped, trace correlated.
//
//	logger.L(ctx).Info("payment recorded", zap.String("invoice", number))
func L(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, FromContext(ctx))
}
