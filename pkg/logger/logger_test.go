package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestFromContextInjectsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	ctx := WithContext(context.Background(), AppIDKey, "app-1")
	ctx = WithContext(ctx, RequestIDKey, "req-9")

	Error(ctx, "export failed", errors.New("boom"), "rows", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "export failed", line["msg"])
	assert.Equal(t, "app-1", line["app_id"])
	assert.Equal(t, "req-9", line["request_id"])
	assert.Equal(t, "boom", line["error"])
	assert.EqualValues(t, 3, line["rows"])
	assert.NotContains(t, line, "trace_id")
}

func TestFromContextBindsFieldsOnce(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")

	ctx := WithContext(context.Background(), AppIDKey, "app-2")
	FromContext(ctx).Info("consumer started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "app-2", line["app_id"])
	assert.Equal(t, "consumer started", line["msg"])
}
