package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger stores logger in ctx. A nil logger stores the process logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the process logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerKey).(*zerolog.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// WithRequestID records the HTTP request ID and tags the context logger
// with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return tag(ctx, "request_id", requestID)
}

// RequestID returns the request ID set by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithProject tags the context logger with a project UUID.
func WithProject(ctx context.Context, project string) context.Context {
	return tag(ctx, "project", project)
}

// WithSession tags the context logger with an editor session ID.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return tag(ctx, "session_id", sessionID)
}

func tag(ctx context.Context, key string, value any) context.Context {
	logger := withField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

func withField(c zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return c.Str(key, v)
	case int:
		return c.Int(key, v)
	case bool:
		return c.Bool(key, v)
	case error:
		return c.AnErr(key, v)
	default:
		return c.Interface(key, v)
	}
}
