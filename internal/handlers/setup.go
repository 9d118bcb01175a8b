package handlers

import (
	"context"
	"net/http"

	"github.com/BurntSushi/toml"
	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/config"
	"go.uber.org/zap"
)

// SetupHandler powers the first-run wizard. It runs on a bare server that
// only knows how to collect a configuration, write it and restart.
type SetupHandler struct {
	cfg     *config.Config
	path    string
	restart func()
	logger  *zap.Logger
}

// NewSetupHandler creates a new setup handler. restart is invoked after a
// valid configuration has been written, or on an explicit restart request.
func NewSetupHandler(cfg *config.Config, path string, restart func(), logger *zap.Logger) *SetupHandler {
	return &SetupHandler{cfg: cfg, path: path, restart: restart, logger: logger}
}

// SetConfigRequest is the full configuration submitted by the wizard.
type SetConfigRequest struct {
	Body config.Config
}

func (h *SetupHandler) SetConfig(_ context.Context, req *SetConfigRequest) (*MessageResponse, error) {
	cfg := req.Body

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, NewStatusError(http.StatusBadRequest, "", errs...)
	}

	cfg.Setup.SetupDone = true

	if err := cfg.Write(h.path); err != nil {
		h.logger.Error("failed to write config", zap.String("path", h.path), zap.Error(err))

		return nil, huma.Error500InternalServerError(err.Error())
	}

	*h.cfg = cfg
	h.restart()

	return message("OK. Restarting."), nil
}

func (h *SetupHandler) Restart(_ context.Context, _ *struct{}) (*MessageResponse, error) {
	h.restart()

	return message("Setup server is shutting down..."), nil
}

// SerializeResponse is the current configuration rendered as TOML.
type SerializeResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func (h *SetupHandler) Serialize(_ context.Context, _ *struct{}) (*SerializeResponse, error) {
	data, err := toml.Marshal(h.cfg)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to serialize configuration.")
	}

	return &SerializeResponse{ContentType: "application/toml", Body: data}, nil
}
