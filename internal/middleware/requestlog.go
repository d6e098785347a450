package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the request id stored by RequestLogger, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}

	return ""
}

// RequestLogger tags every request with an id, echoes it in the X-Request-ID
// response header and logs the outcome once the handler returns. An incoming
// X-Request-ID is reused so ids survive proxies.
func RequestLogger(logger *zap.Logger, newID func() string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id = newID()
		}

		ctx.SetHeader(RequestIDHeader, id)
		ctx = huma.WithValue(ctx, requestIDKey{}, id)

		next(ctx)

		u := ctx.URL()
		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", ctx.Method()),
			zap.String("path", u.Path),
			zap.Int("status", ctx.Status()),
			zap.String("client_ip", extractClientIP(ctx)),
			zap.Duration("duration", time.Since(start)),
		}

		if ctx.Status() >= 500 {
			logger.Error("request failed", fields...)

			return
		}

		logger.Info("request served", fields...)
	}
}

func extractClientIP(ctx huma.Context) string {
	// Check X-Forwarded-For first (may contain multiple IPs)
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}
