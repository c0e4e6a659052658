package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for user ID (string representation).
	UserIDKey contextKey = "user_id"
)

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// Options configures New. Zero values pick the defaults for Env:
// production logs JSON at info, everything else logs text at debug.
type Options struct {
	Env     string
	Format  string // "json" or "text"
	Level   string // "debug", "info", "warn" or "error"
	Service string // attached to every record as "service" when set
	Output  io.Writer
}

// New creates a structured logger
func New(opts Options) (*Logger, error) {
	production := opts.Env == "production"

	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	if opts.Level != "" {
		parsed, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "text"
		if production {
			format = "json"
		}
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(output, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	l := slog.New(handler)
	if opts.Service != "" {
		l = l.With("service", opts.Service)
	}
	return &Logger{Logger: l}, nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(name)))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// replaceAttr prints RFC3339 timestamps and file:line sources
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return a
}

// Discard returns a logger that drops every record
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ContextWithUserID stores the authenticated user ID for WithContext
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// ContextWithRequestID stores the request ID for WithContext
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithContext adds the request and user IDs carried by ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var args []any
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		args = append(args, "user_id", userID)
	}
	if len(args) == 0 {
		return l
	}
	return &Logger{Logger: l.With(args...)}
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithError creates a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return &Logger{Logger: l.With("error", err.Error())}
}
