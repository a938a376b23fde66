package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffered(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		{Level: "debug", Format: "text"},
		{Level: "info", Format: "console"},
	} {
		l, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	assert.ErrorContains(t, err, "log level")

	_, err = New(Config{Format: "xml"})
	assert.ErrorContains(t, err, "log format")
}

func TestLogger_WithKeepsContextAttrs(t *testing.T) {
	l, buf := newBuffered(t, "info", "json")
	ctx := WithRunID(context.Background(), "01J")

	l.WithContext(ctx).With("primitive", "mutex").Info("acquired")

	entry := decode(t, buf)
	assert.Equal(t, "01J", entry["run_id"])
	assert.Equal(t, "mutex", entry["primitive"])
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBuffered(t, "debug", "json")

	for name, logFunc := range map[string]func(string, ...any){
		"DEBUG": l.Debug,
		"INFO":  l.Info,
		"WARN":  l.Warn,
		"ERROR": l.Error,
	} {
		t.Run(name, func(t *testing.T) {
			buf.Reset()
			logFunc("test message", "component", "locks")

			entry := decode(t, buf)
			assert.Equal(t, "test message", entry["msg"])
			assert.Equal(t, "locks", entry["component"])
			assert.Equal(t, name, entry["level"])
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBuffered(t, "info", "json")

	l.With("primitive", "rwlock").Info("acquired")

	assert.Equal(t, "rwlock", decode(t, buf)["primitive"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBuffered(t, "warn", "json")

	l.Debug("debug message")
	l.Info("info message")
	assert.Zero(t, buf.Len())

	l.Warn("warn message")
	assert.NotZero(t, buf.Len())
}

func TestSetLevel(t *testing.T) {
	l, buf := newBuffered(t, "error", "json")

	l.Info("filtered")
	assert.Zero(t, buf.Len())

	SetLevel("debug")
	l.Info("visible")
	assert.NotZero(t, buf.Len())
	assert.Equal(t, "debug", GetLevel())
	assert.True(t, Enabled("debug"))

	SetLevel("warn")
	assert.False(t, Enabled("info"))
	assert.True(t, Enabled("error"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"DEBUG", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"invalid", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			assert.Equal(t, tt.expected, GetLevel())
		})
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	l, buf := newBuffered(t, "debug", "json")
	SetDefault(l)

	for name, logFunc := range map[string]func(string, ...any){
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	} {
		buf.Reset()
		logFunc("test message")
		assert.NotZero(t, buf.Len(), name)
	}
}

func TestLogger_WithContext(t *testing.T) {
	l, buf := newBuffered(t, "info", "json")

	l.WithContext(context.Background()).Info("test message")

	assert.NotZero(t, buf.Len())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.NotNil(t, cfg.Output)
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBuffered(t, "info", "text")

	l.Info("test message", "component", "queue")

	out := buf.String()
	assert.Contains(t, out, "test message")
	assert.Contains(t, out, "component=queue")
}

func TestLogger_TruncatesLongValues(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf, MaxValueLen: 8})
	require.NoError(t, err)

	l.Info("key", "repr", strings.Repeat("x", 20), "short", "ok")

	entry := decode(t, &buf)
	assert.Equal(t, "xxxxxxxx...(12 more bytes)", entry["repr"])
	assert.Equal(t, "ok", entry["short"])
}
