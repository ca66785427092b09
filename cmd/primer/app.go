package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/primer-app/primer/internal/calendar"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/gcal"
	"github.com/primer-app/primer/internal/service"
	"github.com/primer-app/primer/internal/storage"
)

// offlineAccessToken stands in for a provider token when events only live in
// the local store.
const offlineAccessToken = "offline"

// app is the wiring shared by commands that touch events.
type app struct {
	store    *storage.SQLiteStorage
	calendar *calendar.Service
	session  service.StaticSession
}

// openApp opens and migrates the event store and, when Google is enabled,
// connects the remote calendar using the saved token.
func openApp(ctx context.Context) (*app, error) {
	v := viper.GetViper()

	googleCfg, err := config.LoadGoogleConfig(v)
	if err != nil {
		return nil, err
	}

	dbPath := config.DatabasePath(v)
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	session := service.StaticSession{
		UserID:      v.GetString(config.KeyUserID),
		AccessToken: offlineAccessToken,
	}

	var remote calendar.Remote
	if googleCfg.Enabled {
		token, err := gcal.LoadToken(googleCfg.OAuth.TokenFile)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("no Google token, run 'primer auth google' first: %w", err)
		}
		token, err = gcal.RefreshTokenIfNeeded(ctx, googleCfg.OAuth, token)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		client, err := gcal.NewClient(ctx, googleCfg.OAuth, token, googleCfg.CalendarID)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		remote = client
		session.AccessToken = token.AccessToken
	}

	slog.Debug("Opened event store",
		"database", dbPath,
		"user_id", session.UserID,
		"google", googleCfg.Enabled)

	return &app{
		store:    store,
		calendar: calendar.New(store, remote),
		session:  session,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}
