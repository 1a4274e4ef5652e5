package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name     string
		level    string
		logDebug bool
		logInfo  bool
	}{
		{name: "debug level", level: "debug", logDebug: true, logInfo: true},
		{name: "info level", level: "info", logDebug: false, logInfo: true},
		{name: "upper case", level: "WARN", logDebug: false, logInfo: false},
		{name: "invalid falls back to info", level: "chatty", logDebug: false, logInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tt.logDebug, strings.Contains(buf.String(), "debug message"))
			assert.Equal(t, tt.logInfo, strings.Contains(buf.String(), "info message"))
			assert.Same(t, l, slog.Default())
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)
	require.NoError(t, err)

	l.Info("patient created", "patient_id", "user-patient-1")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patient created", entries[0]["msg"])
	assert.Equal(t, "user-patient-1", entries[0]["patient_id"])
	assert.Equal(t, "pocket-doctor", entries[0]["service"])
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("error")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelError, level)

	level, ok = logger.ParseLevel("")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestContextLogger(t *testing.T) {
	fallback, fallbackBuf := logger.GetTestLogger(t)

	t.Run("returns stored logger", func(t *testing.T) {
		ctx, buf := logger.NewTestContext(t)
		logger.FromContextOrDefault(ctx, fallback).Info("from context")
		logger.AssertLogContains(t, buf, "from context")
	})

	t.Run("falls back and attaches request id", func(t *testing.T) {
		fallbackBuf.Reset()
		ctx := logger.WithRequestID(context.Background(), "req-42")
		logger.FromContextOrDefault(ctx, fallback).Info("fallback")
		logger.AssertLogField(t, fallbackBuf, "request_id", "req-42")
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		assert.Same(t, fallback, logger.FromContextOrDefault(nil, fallback))
	})
}
