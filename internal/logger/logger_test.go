package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_WritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	prev := L()
	Set(New(&buf, "info"))
	t.Cleanup(func() { Set(prev) })

	Info("session created", map[string]any{
		"user_id": "g-123",
		"count":   2,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "session created", entry["msg"])
	assert.Equal(t, "g-123", entry["user_id"])
	assert.Equal(t, float64(2), entry["count"])
}

func TestDebug_FilteredAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := L()
	Set(New(&buf, "info"))
	t.Cleanup(func() { Set(prev) })

	Debug("noisy", nil)
	assert.Empty(t, buf.String())

	Warn("kept", nil)
	assert.True(t, strings.Contains(buf.String(), `"level":"WARN"`))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestAttrs_SortedKeys(t *testing.T) {
	got := attrs(map[string]any{"b": 1, "a": 2, "c": 3})
	require.Len(t, got, 3)

	var keys []string
	for _, a := range got {
		keys = append(keys, a.(slog.Attr).Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Nil(t, attrs(nil))
}
