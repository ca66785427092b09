package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "json")

	logger.Debug("hidden")
	logger.Info("Reminder scheduled", "title", "Standup")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Reminder scheduled", entry["msg"])
	assert.Equal(t, "Standup", entry["title"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug, "console")
	logger.Debug("Parsing text", "length", 12)

	assert.Contains(t, buf.String(), "msg=\"Parsing text\"")
	assert.Contains(t, buf.String(), "length=12")
}

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		log       func()
		fields    map[string]any
		name      string
		wantLevel string
		wantMsg   string
	}{
		{
			name:      "error",
			log:       func() { LogError(errors.New("googleapi: Error 503"), "Failed to check events", Fields{"user_id": "user-1"}) },
			wantLevel: "ERROR",
			wantMsg:   "Failed to check events",
			fields:    map[string]any{"error": "googleapi: Error 503", "user_id": "user-1"},
		},
		{
			name:      "info",
			log:       func() { LogInfo("Saved calendar event", Fields{"title": "Standup"}) },
			wantLevel: "INFO",
			wantMsg:   "Saved calendar event",
			fields:    map[string]any{"title": "Standup"},
		},
		{
			name:      "debug",
			log:       func() { LogDebug("Skipping google event", Fields{"google_event_id": "g-1"}) },
			wantLevel: "DEBUG",
			wantMsg:   "Skipping google event",
			fields:    map[string]any{"google_event_id": "g-1"},
		},
	}

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			slog.SetDefault(NewLogger(&buf, slog.LevelDebug, "json"))

			tt.log()

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["msg"])
			for k, v := range tt.fields {
				assert.Equal(t, v, entry[k], k)
			}
		})
	}
}
