package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogLogger(t *testing.T) {
	t.Run("creates logger with custom writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewSlogLogger(slog.LevelInfo, buf)

		require.NotNil(t, logger)
		require.NotNil(t, logger.logger)
	})

	t.Run("creates logger with default writer when nil", func(t *testing.T) {
		logger := NewSlogLogger(slog.LevelInfo, nil)

		require.NotNil(t, logger)
		require.NotNil(t, logger.logger)
	})
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(*SlogLogger)
		tag  string
		msg  string
	}{
		{"debug", func(l *SlogLogger) { l.Debug("block decoded") }, "DBG", "block decoded"},
		{"info", func(l *SlogLogger) { l.Info("block stored") }, "INF", "block stored"},
		{"warn", func(l *SlogLogger) { l.Warn("block truncated") }, "WRN", "block truncated"},
		{"error", func(l *SlogLogger) { l.Error("decode failed") }, "ERR", "decode failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewSlogLogger(slog.LevelDebug, buf))

			output := buf.String()
			assert.Contains(t, output, tt.tag)
			assert.Contains(t, output, tt.msg)
			assert.True(t, strings.HasSuffix(output, "\n"))
		})
	}
}

func TestSlogLogger_WithArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlogLogger(slog.LevelInfo, buf)

	logger.Info("block stored", "key", "retained/a", "bytes", 31)
	output := buf.String()

	assert.Contains(t, output, "key=retained/a")
	assert.Contains(t, output, "bytes=31")
}

func TestSlogLogger_OddNumberOfArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlogLogger(slog.LevelInfo, buf)

	logger.Info("test message", "key1", "value1", "key2")
	output := buf.String()

	assert.Contains(t, output, "key1=value1")
	assert.NotContains(t, output, "key2")
}

func TestSlogLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlogLogger(slog.LevelInfo, buf).With("component", "archive")

	logger.Info("opened")
	logger.Info("closed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "component=archive")
	}
}

func TestSlogLogger_WithoutColor(t *testing.T) {
	buf := &bytes.Buffer{}
	NewSlogLogger(slog.LevelInfo, buf, WithoutColor()).Warn("plain")

	assert.Contains(t, buf.String(), " WRN plain")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestSlogLogger_MinLevel(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  slog.Level
		logFunc   func(*SlogLogger)
		shouldLog bool
	}{
		{"debug below info", slog.LevelInfo, func(l *SlogLogger) { l.Debug("m") }, false},
		{"info at info", slog.LevelInfo, func(l *SlogLogger) { l.Info("m") }, true},
		{"warn above info", slog.LevelInfo, func(l *SlogLogger) { l.Warn("m") }, true},
		{"info below error", slog.LevelError, func(l *SlogLogger) { l.Info("m") }, false},
		{"error at error", slog.LevelError, func(l *SlogLogger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewSlogLogger(tt.minLevel, buf))

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestColoredHandler_Enabled(t *testing.T) {
	handler := &ColoredHandler{minLevel: slog.LevelInfo}

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestColoredHandler_Groups(t *testing.T) {
	buf := &bytes.Buffer{}
	l := slog.New(&ColoredHandler{writer: buf, minLevel: slog.LevelInfo})

	l.WithGroup("store").With("backend", "pebble").Info("opened", "path", "/tmp/x")

	output := buf.String()
	assert.Contains(t, output, "store.backend=pebble")
	assert.Contains(t, output, "store.path=/tmp/x")
}

func TestColoredHandler_WithAttrsDoesNotShare(t *testing.T) {
	base := &ColoredHandler{writer: &bytes.Buffer{}, minLevel: slog.LevelInfo}

	a := base.WithAttrs([]slog.Attr{slog.String("a", "1")}).(*ColoredHandler)
	b := base.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*ColoredHandler)

	assert.Len(t, base.attrs, 0)
	require.Len(t, a.attrs, 1)
	require.Len(t, b.attrs, 1)
	assert.Equal(t, "a", a.attrs[0].Key)
	assert.Equal(t, "b", b.attrs[0].Key)
}

func TestColoredHandler_levelTag(t *testing.T) {
	handler := &ColoredHandler{}

	tests := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, colorGray + "DBG" + colorReset},
		{slog.LevelInfo, colorBlue + "INF" + colorReset},
		{slog.LevelWarn, colorYellow + "WRN" + colorReset},
		{slog.LevelError, colorRed + "ERR" + colorReset},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, handler.levelTag(tt.level))
		})
	}
}

func TestSlogLogger_ConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlogLogger(slog.LevelInfo, buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("decoded", "n", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, strings.Count(buf.String(), "\n"))
}

func TestFormatArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []any
		expected int
	}{
		{"empty", nil, 0},
		{"single pair", []any{"key", "value"}, 1},
		{"odd count", []any{"key1", "value1", "key2"}, 1},
		{"non-string key", []any{123, "value"}, 0},
		{"mixed values", []any{"k1", 42, "k2", true, "k3", 3.14}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, formatArgs(tt.args...), tt.expected)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerImplementations(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
	var _ Logger = Nop{}

	assert.Equal(t, Nop{}, OrNop(nil))
	l := NewSlogLogger(slog.LevelInfo, &bytes.Buffer{})
	assert.Same(t, l, OrNop(l))
}
