package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shurlix/shurlix/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() config.Config {
	return config.Config{
		DB: config.DatabaseConfig{URL: "postgres://localhost:5432/shurlix"},
		App: config.AppConfig{
			ShortenedLinkLength:   6,
			AllowAnonymousShorten: true,
			AllowRegistering:      true,
			BaseURL:               "http://localhost:3000",
		},
		Security: config.SecurityConfig{
			JWTSecret:           "secret",
			MinPasswordStrength: 3,
		},
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields a zero config in setup mode", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))

		require.NoError(t, err)
		assert.False(t, cfg.Setup.SetupDone)
		assert.Empty(t, cfg.DB.URL)
	})

	t.Run("round-trips through write and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		cfg := validConfig()
		cfg.App.EmailVerificationTTL = config.Duration{Duration: 48 * time.Hour}
		cfg.Setup.SetupDone = true

		require.NoError(t, cfg.Write(path))

		loaded, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, cfg, *loaded)
	})

	t.Run("write leaves no temp file behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		cfg := validConfig()
		require.NoError(t, cfg.Write(path))

		_, err := os.Stat(path + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))

		_, err := config.Load(path)

		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("accepts a complete config", func(t *testing.T) {
		cfg := validConfig()

		assert.Empty(t, cfg.Validate())
	})

	t.Run("collects every problem at once", func(t *testing.T) {
		cfg := config.Config{}
		cfg.Security.MinPasswordStrength = 9

		errs := cfg.Validate()

		assert.Contains(t, errs, "db.url is required")
		assert.Contains(t, errs, "app.base_url is required")
		assert.Contains(t, errs, "app.shortened_link_length must be positive")
		assert.Contains(t, errs, "security.jwt_secret is required")
		assert.Contains(t, errs, "security.min_password_strength must be between 0 and 4")
	})

	t.Run("smtp settings are all-or-nothing when enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.SMTP.Enabled = true
		cfg.SMTP.Host = "smtp.example.com"

		errs := cfg.Validate()

		assert.Contains(t, errs, "smtp requires username, password, from, host and port when enabled")
	})

	t.Run("email verification requires smtp and a ttl", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.EnableEmailVerification = true

		errs := cfg.Validate()

		assert.Contains(t, errs, "app.email_verification_ttl must be set when email verification is enabled")
		assert.Contains(t, errs, "smtp must be enabled when email verification is enabled")
	})
}

func TestDuration(t *testing.T) {
	t.Run("marshals to a duration string", func(t *testing.T) {
		d := config.Duration{Duration: 36 * time.Hour}

		text, err := d.MarshalText()

		require.NoError(t, err)
		assert.Equal(t, "36h0m0s", string(text))
	})

	t.Run("unmarshals from a duration string", func(t *testing.T) {
		var d config.Duration

		require.NoError(t, d.UnmarshalText([]byte("15m")))
		assert.Equal(t, 15*time.Minute, d.Duration)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d config.Duration

		assert.Error(t, d.UnmarshalText([]byte("soon")))
	})
}
