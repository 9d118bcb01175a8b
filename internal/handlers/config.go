package handlers

import (
	"context"

	"github.com/shurlix/shurlix/internal/config"
)

// ConfigHandler exposes the non-secret configuration the frontend needs.
type ConfigHandler struct {
	cfg *config.Config
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// ConfigResponse is the public slice of the configuration. Secrets and
// connection strings never appear here.
type ConfigResponse struct {
	Body struct {
		AllowAnonymousShorten   bool   `json:"allow_anonymous_shorten"`
		AllowRegistering        bool   `json:"allow_registering"`
		EnableEmailVerification bool   `json:"enable_email_verification"`
		MinPasswordStrength     int    `json:"min_password_strength"`
		BaseURL                 string `json:"base_url"`
		SetupDone               bool   `json:"setup_done"`
	}
}

func (h *ConfigHandler) Get(_ context.Context, _ *struct{}) (*ConfigResponse, error) {
	resp := &ConfigResponse{}
	resp.Body.AllowAnonymousShorten = h.cfg.App.AllowAnonymousShorten
	resp.Body.AllowRegistering = h.cfg.App.AllowRegistering
	resp.Body.EnableEmailVerification = h.cfg.App.EnableEmailVerification
	resp.Body.MinPasswordStrength = h.cfg.Security.MinPasswordStrength
	resp.Body.BaseURL = h.cfg.App.BaseURL
	resp.Body.SetupDone = h.cfg.Setup.SetupDone

	return resp, nil
}
