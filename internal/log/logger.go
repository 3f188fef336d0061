// Package log configures slog for the service and carries correlation IDs
// through request contexts.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/helixml/fundmatch/internal/config"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// ParseLevel converts a level name to a slog.Level. Unknown names map to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the handler for format writing to w. Records logged with
// a context carrying a correlation ID get a correlation_id attribute.
func NewHandler(w io.Writer, format config.LogFormat, level string) slog.Handler {
	lvl := ParseLevel(level)

	var inner slog.Handler
	switch format {
	case config.LogFormatJSON:
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		inner = newTerminalHandler(w, lvl, os.Getenv("NO_COLOR") == "")
	}
	return contextHandler{Handler: inner}
}

// New creates a logger from the application configuration writing to w.
func New(cfg config.AppConfig, w io.Writer) *slog.Logger {
	return slog.New(NewHandler(w, cfg.LogFormat(), cfg.LogLevel()))
}

// Configure creates a logger from cfg and installs it as the slog default.
func Configure(cfg config.AppConfig, w io.Writer) *slog.Logger {
	l := New(cfg, w)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID extracts the correlation ID from context.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// contextHandler copies the correlation ID from the context into each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationID(ctx); id != "" {
		r.AddAttrs(slog.String(string(correlationIDKey), id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name)}
}
