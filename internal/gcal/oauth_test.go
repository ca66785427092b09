package gcal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "google.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(token.Expiry))
}

func TestLoadToken_Errors(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0600))
	_, err = LoadToken(garbage)
	assert.Error(t, err)
}

func TestRefreshTokenIfNeeded_ValidToken(t *testing.T) {
	token := &oauth2.Token{AccessToken: "still-good", Expiry: time.Now().Add(time.Hour)}

	got, err := RefreshTokenIfNeeded(context.Background(), OAuth2Config{}, token)
	require.NoError(t, err)
	assert.Same(t, token, got)
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuth2Config{ClientID: "id", ClientSecret: "secret"}
	assert.Equal(t, "http://localhost:8080/callback", cfg.oauthConfig().RedirectURL)

	cfg.CallbackPort = 9191
	assert.Equal(t, "http://localhost:9191/callback", cfg.oauthConfig().RedirectURL)
}
