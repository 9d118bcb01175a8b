package handlers_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/shurlix/shurlix/internal/config"
	"github.com/shurlix/shurlix/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func wizardConfig() config.Config {
	cfg := config.Config{}
	cfg.DB.URL = "postgres://localhost:5432/shurlix"
	cfg.App.ShortenedLinkLength = 6
	cfg.App.BaseURL = "http://localhost:3000"
	cfg.Security.JWTSecret = "secret"
	cfg.Security.MinPasswordStrength = 3

	return cfg
}

func TestSetConfig(t *testing.T) {
	t.Run("writes the config and restarts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		live := &config.Config{}
		restarted := false

		handler := handlers.NewSetupHandler(live, path, func() { restarted = true }, zap.NewNop())

		resp, err := handler.SetConfig(context.Background(), &handlers.SetConfigRequest{Body: wizardConfig()})

		require.NoError(t, err)
		assert.Equal(t, "OK. Restarting.", resp.Body.Message)
		assert.True(t, restarted)
		assert.True(t, live.Setup.SetupDone)
		assert.Equal(t, "postgres://localhost:5432/shurlix", live.DB.URL)

		written, err := config.Load(path)

		require.NoError(t, err)
		assert.True(t, written.Setup.SetupDone)
	})

	t.Run("reports every validation problem", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		restarted := false

		handler := handlers.NewSetupHandler(&config.Config{}, path, func() { restarted = true }, zap.NewNop())

		_, err := handler.SetConfig(context.Background(), &handlers.SetConfigRequest{Body: config.Config{}})

		var se *handlers.StatusError

		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadRequest, se.GetStatus())
		assert.Contains(t, se.Errors, "db.url is required")
		assert.Contains(t, se.Errors, "security.jwt_secret is required")
		assert.False(t, restarted)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestRestart(t *testing.T) {
	restarted := false
	handler := handlers.NewSetupHandler(&config.Config{}, "", func() { restarted = true }, zap.NewNop())

	resp, err := handler.Restart(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Setup server is shutting down...", resp.Body.Message)
	assert.True(t, restarted)
}

func TestSerialize(t *testing.T) {
	cfg := wizardConfig()
	handler := handlers.NewSetupHandler(&cfg, "", func() {}, zap.NewNop())

	resp, err := handler.Serialize(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "application/toml", resp.ContentType)
	assert.Contains(t, string(resp.Body), "base_url")
	assert.Contains(t, string(resp.Body), "localhost:3000")
}
