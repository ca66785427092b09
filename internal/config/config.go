// Package config loads application settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/gcal"
	"github.com/primer-app/primer/internal/parser"
	"github.com/primer-app/primer/internal/reminder"
)

// Dir is the configuration directory below the user's home.
const Dir = "~/.config/primer"

// Viper keys.
const (
	KeyDatabasePath          = "database.path"
	KeyUserID                = "user.id"
	KeyGoogleEnabled         = "google.enabled"
	KeyGoogleClientID        = "google.client_id"
	KeyGoogleClientSecret    = "google.client_secret"
	KeyGoogleTokenFile       = "google.token_file"
	KeyGoogleCalendarID      = "google.calendar_id"
	KeyGoogleCallbackPort    = "google.callback_port"
	KeyConfirmationThreshold = "parser.confirmation_threshold"
	KeyReminderInterval      = "reminders.check_interval"
	KeyReminderBefore        = "reminders.before"
	KeyReminderTimezone      = "reminders.timezone"
)

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, filepath.Join(Dir, "primer.db"))
	v.SetDefault(KeyUserID, "local")
	v.SetDefault(KeyGoogleEnabled, false)
	v.SetDefault(KeyGoogleTokenFile, filepath.Join(Dir, "google-token.json"))
	v.SetDefault(KeyGoogleCalendarID, gcal.DefaultCalendarID)
	v.SetDefault(KeyGoogleCallbackPort, gcal.DefaultCallbackPort)
	v.SetDefault(KeyConfirmationThreshold, parser.DefaultConfirmationThreshold)
	v.SetDefault(KeyReminderInterval, reminder.CheckInterval)
	v.SetDefault(KeyReminderBefore, reminder.ReminderBefore)
}

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + rest
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the expanded event database location.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyDatabasePath))
}

// GoogleConfig is the Google Calendar connection settings.
type GoogleConfig struct {
	CalendarID string
	OAuth      gcal.OAuth2Config
	Enabled    bool
}

// LoadGoogleConfig reads Google settings. Credentials fall back to the
// GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables. Missing
// credentials are only an error when the integration is enabled.
func LoadGoogleConfig(v *viper.Viper) (GoogleConfig, error) {
	cfg := GoogleConfig{
		Enabled:    v.GetBool(KeyGoogleEnabled),
		CalendarID: v.GetString(KeyGoogleCalendarID),
		OAuth: gcal.OAuth2Config{
			ClientID:     v.GetString(KeyGoogleClientID),
			ClientSecret: v.GetString(KeyGoogleClientSecret),
			TokenFile:    ExpandPath(v.GetString(KeyGoogleTokenFile)),
			CallbackPort: v.GetInt(KeyGoogleCallbackPort),
		},
	}

	if cfg.OAuth.ClientID == "" {
		cfg.OAuth.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.OAuth.ClientSecret == "" {
		cfg.OAuth.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = gcal.DefaultCalendarID
	}

	if !cfg.Enabled {
		return cfg, nil
	}
	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		return cfg, fmt.Errorf("%w: %s and %s are required when %s is set",
			common.ErrMissingConfig, KeyGoogleClientID, KeyGoogleClientSecret, KeyGoogleEnabled)
	}
	if cfg.OAuth.CallbackPort < 0 || cfg.OAuth.CallbackPort > 65535 {
		return cfg, fmt.Errorf("%w: %s=%d", common.ErrInvalidConfig, KeyGoogleCallbackPort, cfg.OAuth.CallbackPort)
	}
	return cfg, nil
}

// LoadReminderConfig reads reminder timing. The clock is left at its default.
func LoadReminderConfig(v *viper.Viper) (reminder.Config, error) {
	cfg := reminder.DefaultConfig()
	cfg.CheckInterval = v.GetDuration(KeyReminderInterval)
	cfg.ReminderBefore = v.GetDuration(KeyReminderBefore)

	if cfg.CheckInterval <= 0 {
		return cfg, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyReminderInterval)
	}
	if cfg.ReminderBefore <= 0 {
		return cfg, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyReminderBefore)
	}

	if tz := v.GetString(KeyReminderTimezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyReminderTimezone, err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

// LoadParser builds a parser with the configured confirmation threshold.
func LoadParser(v *viper.Viper) (*parser.Parser, error) {
	threshold := v.GetFloat64(KeyConfirmationThreshold)
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %s must be within [0, 1], got %v",
			common.ErrInvalidConfig, KeyConfirmationThreshold, threshold)
	}
	return parser.NewWithThreshold(threshold), nil
}
