package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// SlogLogger wraps slog.Logger to implement the Logger interface
type SlogLogger struct {
	logger *slog.Logger
}

// Option tweaks the handler built by NewSlogLogger.
type Option func(*ColoredHandler)

// WithoutColor prints bare level names, for output that is not a terminal.
func WithoutColor() Option {
	return func(h *ColoredHandler) { h.plain = true }
}

// NewSlogLogger creates a new SlogLogger with colored output and configurable minimum level
func NewSlogLogger(minLevel slog.Level, writer io.Writer, opts ...Option) *SlogLogger {
	if writer == nil {
		writer = os.Stderr
	}

	handler := &ColoredHandler{
		mu:       &sync.Mutex{},
		writer:   writer,
		minLevel: minLevel,
	}
	for _, opt := range opts {
		opt(handler)
	}

	return &SlogLogger{
		logger: slog.New(handler),
	}
}

// With returns a logger that adds args to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(formatArgs(args...)...)}
}

// ColoredHandler implements slog.Handler with one line per record and a
// colored level tag.
type ColoredHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	minLevel slog.Level
	plain    bool
	attrs    []slog.Attr
	prefix   string
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *ColoredHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(h.levelTag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	for _, attr := range h.attrs {
		writeAttr(&sb, "", attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value)
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup qualifies the keys of later attributes with name.
func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ColoredHandler) levelTag(level slog.Level) string {
	var color string
	var levelStr string

	switch level {
	case slog.LevelDebug:
		color = colorGray
		levelStr = "DBG"
	case slog.LevelInfo:
		color = colorBlue
		levelStr = "INF"
	case slog.LevelWarn:
		color = colorYellow
		levelStr = "WRN"
	case slog.LevelError:
		color = colorRed
		levelStr = "ERR"
	default:
		color = colorReset
		levelStr = level.String()
	}

	if h.plain {
		return levelStr
	}
	return color + levelStr + colorReset
}

// Info logs an informational message
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, formatArgs(args...)...)
}

// Warn logs a warning message
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, formatArgs(args...)...)
}

// Error logs an error message
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, formatArgs(args...)...)
}

// Debug logs a debug message
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, formatArgs(args...)...)
}

// formatArgs turns key-value pairs into slog attributes. A trailing key
// without a value and pairs with a non-string key are dropped.
func formatArgs(args ...any) []any {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]any, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	return attrs
}
