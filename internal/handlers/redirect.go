package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/middleware"
)

// RedirectHandler resolves slugs on whichever domain the request arrived at.
type RedirectHandler struct {
	links       *links.Service
	domainStore domains.Repository
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(linkService *links.Service, domainStore domains.Repository) *RedirectHandler {
	return &RedirectHandler{links: linkService, domainStore: domainStore}
}

// RedirectRequest is the public slug lookup.
type RedirectRequest struct {
	Slug string `doc:"The slug to resolve" example:"abc123" path:"slug"`
}

// RedirectResponse issues a permanent redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	domain, err := h.domainStore.GetByHost(ctx, middleware.HostFromContext(ctx))
	if err != nil {
		if errors.Is(err, domains.ErrNotFound) {
			return nil, huma.Error404NotFound("Slug not found.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	link, err := h.links.Resolve(ctx, domain.ID, req.Slug)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("Slug not found.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = link.OriginalLink

	return resp, nil
}
