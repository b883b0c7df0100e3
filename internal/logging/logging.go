// Package logging provides structured logging and request-scoped context values.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// TraceIDKey carries the per-request trace ID.
	TraceIDKey contextKey = "trace_id"
	// UserIDKey carries the authenticated user's ID.
	UserIDKey contextKey = "user_id"
	// RoleKey carries the authenticated user's role.
	RoleKey contextKey = "role"
)

// Logger wraps zerolog with context-aware field extraction.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing JSON to w at the given level. Unknown level
// strings fall back to info.
func New(w io.Writer, level string, service string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
	return &Logger{zl: zl}
}

// NewConsole creates a human-readable logger for development runs.
func NewConsole(level string, service string) *Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, level, service)
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithContext returns a logger enriched with trace/user fields from ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if traceID := GetTraceID(ctx); traceID != "" {
		zc = zc.Str("trace_id", traceID)
	}
	if userID := GetUserID(ctx); userID != "" {
		zc = zc.Str("user_id", userID)
	}
	if role := GetRole(ctx); role != "" {
		zc = zc.Str("role", role)
	}
	return &Logger{zl: zc.Logger()}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

// WithFields returns a logger with the given fields attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }

// LogRequest logs one completed HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	evt := l.zl.Info()
	if status >= 500 {
		evt = l.zl.Error()
	} else if status >= 400 {
		evt = l.zl.Warn()
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		evt = evt.Str("trace_id", traceID)
	}
	if userID := GetUserID(ctx); userID != "" {
		evt = evt.Str("user_id", userID)
	}
	evt.Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", duration).
		Msg("http request")
}

// =============================================================================
// Context helpers
// =============================================================================

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID extracts the trace ID, or "" if absent.
func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

// WithUserID stores the authenticated user's ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the user ID, or "" if absent.
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

// WithRole stores the authenticated user's role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// GetRole extracts the role, or "" if absent.
func GetRole(ctx context.Context) string {
	v, _ := ctx.Value(RoleKey).(string)
	return v
}
