package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/parser"
	"github.com/primer-app/primer/internal/reminder"
)

func newViper(t *testing.T, values map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PRIMER_TEST_DIR", "/srv/primer")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "home only", input: "~", expected: home},
		{name: "home prefix", input: "~/.config/primer/primer.db", expected: filepath.Join(home, ".config/primer/primer.db")},
		{name: "tilde inside name", input: "~other/file", expected: "~other/file"},
		{name: "environment variable", input: "$PRIMER_TEST_DIR/events.db", expected: "/srv/primer/events.db"},
		{name: "absolute", input: "/tmp/primer.db", expected: "/tmp/primer.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestDatabasePath_Default(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/primer/primer.db"), DatabasePath(newViper(t, nil)))
}

func TestLoadGoogleConfig(t *testing.T) {
	t.Run("disabled without credentials", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "")
		t.Setenv("GOOGLE_CLIENT_SECRET", "")

		cfg, err := LoadGoogleConfig(newViper(t, nil))
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, "primary", cfg.CalendarID)
		assert.Equal(t, 8080, cfg.OAuth.CallbackPort)
	})

	t.Run("enabled without credentials", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "")
		t.Setenv("GOOGLE_CLIENT_SECRET", "")

		_, err := LoadGoogleConfig(newViper(t, map[string]any{KeyGoogleEnabled: true}))
		assert.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("credentials from environment", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "env-id")
		t.Setenv("GOOGLE_CLIENT_SECRET", "env-secret")

		cfg, err := LoadGoogleConfig(newViper(t, map[string]any{
			KeyGoogleEnabled:    true,
			KeyGoogleCalendarID: "work@example.com",
			KeyGoogleTokenFile:  "/tmp/token.json",
		}))
		require.NoError(t, err)
		assert.Equal(t, "env-id", cfg.OAuth.ClientID)
		assert.Equal(t, "env-secret", cfg.OAuth.ClientSecret)
		assert.Equal(t, "work@example.com", cfg.CalendarID)
		assert.Equal(t, "/tmp/token.json", cfg.OAuth.TokenFile)
	})

	t.Run("config wins over environment", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "env-id")

		cfg, err := LoadGoogleConfig(newViper(t, map[string]any{
			KeyGoogleClientID:     "cfg-id",
			KeyGoogleClientSecret: "cfg-secret",
		}))
		require.NoError(t, err)
		assert.Equal(t, "cfg-id", cfg.OAuth.ClientID)
	})

	t.Run("invalid callback port", func(t *testing.T) {
		_, err := LoadGoogleConfig(newViper(t, map[string]any{
			KeyGoogleEnabled:      true,
			KeyGoogleClientID:     "id",
			KeyGoogleClientSecret: "secret",
			KeyGoogleCallbackPort: 70000,
		}))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadReminderConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadReminderConfig(newViper(t, nil))
		require.NoError(t, err)
		assert.Equal(t, reminder.CheckInterval, cfg.CheckInterval)
		assert.Equal(t, reminder.ReminderBefore, cfg.ReminderBefore)
		assert.Equal(t, time.Local, cfg.Location)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := LoadReminderConfig(newViper(t, map[string]any{
			KeyReminderInterval: "30s",
			KeyReminderBefore:   "15m",
			KeyReminderTimezone: "America/Sao_Paulo",
		}))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.CheckInterval)
		assert.Equal(t, 15*time.Minute, cfg.ReminderBefore)
		assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
	})

	tests := []struct {
		values map[string]any
		name   string
	}{
		{name: "zero interval", values: map[string]any{KeyReminderInterval: "0s"}},
		{name: "negative lead time", values: map[string]any{KeyReminderBefore: "-1m"}},
		{name: "unknown timezone", values: map[string]any{KeyReminderTimezone: "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReminderConfig(newViper(t, tt.values))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadParser(t *testing.T) {
	p, err := LoadParser(newViper(t, nil))
	require.NoError(t, err)
	assert.InDelta(t, parser.DefaultConfirmationThreshold, p.ConfirmationThreshold, 1e-9)

	p, err = LoadParser(newViper(t, map[string]any{KeyConfirmationThreshold: 0.5}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.ConfirmationThreshold, 1e-9)

	_, err = LoadParser(newViper(t, map[string]any{KeyConfirmationThreshold: 1.5}))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
