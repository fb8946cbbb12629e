package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestStructuredLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLoggerWithWriter(&buf, "navmenu", "v1.2.3", "info", FormatJSON)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("menu loaded", "items", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "menu loaded", rec["msg"])
	assert.Equal(t, "navmenu", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.EqualValues(t, 3, rec["items"])
	assert.NotContains(t, rec, "source")
}

func TestStructuredLoggerText(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLoggerWithWriter(&buf, "navmenu", "dev", "debug", "TEXT")

	log.Debug("resize", "width", 900)
	out := buf.String()
	assert.Contains(t, out, "msg=resize")
	assert.Contains(t, out, "width=900")
	assert.Contains(t, out, "source=")
}
