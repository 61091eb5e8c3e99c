package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"burnrate/internal/application/mediator"
)

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a no-op
// logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// WithCorrelationID stamps the context logger with a correlation ID so
// every log line for one request can be joined.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return WithLogger(ctx, FromContext(ctx).With(zap.String("correlationId", correlationID)))
}

// NewLogger builds the process logger. Level is one of debug, info,
// warn, error; format is json or console.
func NewLogger(level, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "", "info":
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	if format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return config.Build()
}

// Middleware injects the base logger into the request context when none
// is present, so handlers can always call FromContext.
func Middleware(base *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if _, ok := ctx.Value(loggerKey).(*zap.Logger); !ok {
			ctx = WithLogger(ctx, base)
		}
		return next(ctx, request)
	}
}
