package handlers_test

import (
	"context"
	"testing"

	"github.com/shurlix/shurlix/internal/config"
	"github.com/shurlix/shurlix/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.AllowAnonymousShorten = true
	cfg.App.AllowRegistering = true
	cfg.App.EnableEmailVerification = true
	cfg.App.BaseURL = "http://sho.rt"
	cfg.Security.MinPasswordStrength = 3
	cfg.Security.JWTSecret = "secret"
	cfg.Setup.SetupDone = true

	handler := handlers.NewConfigHandler(cfg)

	resp, err := handler.Get(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, resp.Body.AllowAnonymousShorten)
	assert.True(t, resp.Body.AllowRegistering)
	assert.True(t, resp.Body.EnableEmailVerification)
	assert.Equal(t, 3, resp.Body.MinPasswordStrength)
	assert.Equal(t, "http://sho.rt", resp.Body.BaseURL)
	assert.True(t, resp.Body.SetupDone)
}
