package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the persisted application configuration. It lives in a single
// TOML file that the setup wizard writes on first run.
type Config struct {
	DB       DatabaseConfig `json:"db"       toml:"db"`
	App      AppConfig      `json:"app"      toml:"app"`
	Security SecurityConfig `json:"security" toml:"security"`
	SMTP     SMTPConfig     `json:"smtp"     toml:"smtp"`
	Redis    RedisConfig    `json:"redis"    toml:"redis"`
	Setup    SetupConfig    `json:"setup"    toml:"setup"`
}

type DatabaseConfig struct {
	URL string `json:"url" toml:"url"`
}

type AppConfig struct {
	ShortenedLinkLength     int      `json:"shortened_link_length"     toml:"shortened_link_length"`
	AllowAnonymousShorten   bool     `json:"allow_anonymous_shorten"   toml:"allow_anonymous_shorten"`
	AllowRegistering        bool     `json:"allow_registering"         toml:"allow_registering"`
	BaseURL                 string   `json:"base_url"                  toml:"base_url"`
	EnableEmailVerification bool     `json:"enable_email_verification" toml:"enable_email_verification"`
	EmailVerificationTTL    Duration `json:"email_verification_ttl"    toml:"email_verification_ttl"`
}

type SecurityConfig struct {
	JWTSecret string `json:"jwt_secret" toml:"jwt_secret"`
	// MinPasswordStrength is a zxcvbn score in the 0-4 range.
	MinPasswordStrength int `json:"min_password_strength" toml:"min_password_strength"`
}

type SMTPConfig struct {
	Enabled  bool   `json:"enabled"  toml:"enabled"`
	Username string `json:"username" toml:"username"`
	Password string `json:"password" toml:"password"`
	From     string `json:"from"     toml:"from"`
	Host     string `json:"host"     toml:"host"`
	Port     int    `json:"port"     toml:"port"`
}

type SetupConfig struct {
	SetupDone bool `json:"setup_done" toml:"setup_done"`
}

// RedisConfig is optional. When no address is configured the app falls back
// to in-process messaging and in-memory rate limiting.
type RedisConfig struct {
	Addr     string `json:"addr"     toml:"addr"`
	Password string `json:"password" toml:"password"`
}

// Load reads the config file at path. A missing file is not an error: it
// yields a zero config with setup_done=false, which sends the process into
// setup mode.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}

		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// Write persists the config as TOML. The file is written to a temp path and
// renamed so a crash mid-write cannot leave a truncated config behind.
func (c *Config) Write(path string) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)

		return fmt.Errorf("encode config: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return os.Rename(tmp, path)
}

// Validate runs the semantic checks the setup wizard and normal startup share.
// It returns every problem found rather than stopping at the first one.
func (c *Config) Validate() []string {
	var errs []string

	if c.DB.URL == "" {
		errs = append(errs, "db.url is required")
	}

	if c.App.BaseURL == "" {
		errs = append(errs, "app.base_url is required")
	} else if _, err := url.Parse(c.App.BaseURL); err != nil {
		errs = append(errs, "app.base_url is not a valid URL")
	}

	if c.App.ShortenedLinkLength <= 0 {
		errs = append(errs, "app.shortened_link_length must be positive")
	}

	if c.Security.JWTSecret == "" {
		errs = append(errs, "security.jwt_secret is required")
	}

	if c.Security.MinPasswordStrength < 0 || c.Security.MinPasswordStrength > 4 {
		errs = append(errs, "security.min_password_strength must be between 0 and 4")
	}

	if c.SMTP.Enabled {
		// SMTP settings are all-or-nothing once the section is enabled.
		if c.SMTP.Username == "" || c.SMTP.Password == "" || c.SMTP.From == "" || c.SMTP.Host == "" || c.SMTP.Port == 0 {
			errs = append(errs, "smtp requires username, password, from, host and port when enabled")
		}
	}

	if c.App.EnableEmailVerification {
		if c.App.EmailVerificationTTL.Duration == 0 {
			errs = append(errs, "app.email_verification_ttl must be set when email verification is enabled")
		}

		if !c.SMTP.Enabled {
			errs = append(errs, "smtp must be enabled when email verification is enabled")
		}
	}

	return errs
}
