// Package middleware provides the HTTP middleware of the API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the maximum length accepted for incoming request IDs
const MaxRequestIDLength = 128

// TracingConfig switches otelgin on and names the service on server spans.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// ErrorCodeKey is the gin key under which handlers record the API error code
// they answered with, for SpanErrorMarker.
const ErrorCodeKey = "error_code"

// TracingWithConfig returns the otelgin middleware, or a pass-through when disabled.
// Span names follow "HTTP METHOD route_pattern", e.g. "GET /api/v1/invoices/:id".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector adds the request id to the current span. It must
// run after Tracing and RequestID.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := GetRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the span of a 4xx/5xx response as failed and tags it
// with the API error code. Place it after TracingWithConfig.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		status := c.Writer.Status()
		if !span.IsRecording() || status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("app.error_code", code))
		}
	}
}
