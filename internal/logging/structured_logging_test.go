package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		logger.Info("snapshot_loaded", slog.String("component", "snapshot"), slog.Int("routes", 3))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"snapshot_loaded"`)
		assert.Contains(t, output, `"component":"snapshot"`)
		assert.Contains(t, output, `"routes":3`)
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)
		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestNewLogger(t *testing.T) {
	var text bytes.Buffer
	NewLogger(&text, true, false).Info("hello")
	assert.Contains(t, text.String(), "msg=hello")

	var js bytes.Buffer
	NewLogger(&js, false, false).Info("hello")
	assert.Contains(t, js.String(), `"msg":"hello"`)

	var quiet bytes.Buffer
	NewLogger(&quiet, false, false).Debug("noise")
	assert.Empty(t, quiet.String())

	var verbose bytes.Buffer
	NewLogger(&verbose, false, true).Debug("noise")
	assert.Contains(t, verbose.String(), "noise")
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		LogError(logger, "snapshot refresh failed", assert.AnError, slog.String("component", "snapshot"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"component":"snapshot"`)
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		LogOperation(logger, "routes_replaced", slog.Int("routes", 12), slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"routes_replaced"`)
		assert.Contains(t, output, `"routes":12`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		LogHTTPRequest(logger, "GET", "/api/routes/r1/board", 200, 1500*time.Microsecond,
			slog.String("component", "http"))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"path":"/api/routes/r1/board"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":1.5`)
	})

	t.Run("LogHTTPRequest level follows status", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)
		LogHTTPRequest(logger, "GET", "/api/routes/missing", 404, time.Millisecond)
		LogHTTPRequest(logger, "POST", "/api/admin/routes", 500, time.Millisecond)

		output := buf.String()
		assert.Contains(t, output, `"level":"WARN"`)
		assert.Contains(t, output, `"level":"ERROR"`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		LogError(nil, "x", assert.AnError)
		LogOperation(nil, "x")
		LogHTTPRequest(nil, "GET", "/", 200, 0)
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("from context")
	assert.Contains(t, buf.String(), "from context")

	require.NotNil(t, FromContext(context.Background()))
}
