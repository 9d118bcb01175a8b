package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/middleware"
)

// LinkHandler handles link shortening operations.
type LinkHandler struct {
	links *links.Service
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(service *links.Service) *LinkHandler {
	return &LinkHandler{links: service}
}

// callerFrom maps the authenticated user, if any, to a service-level caller.
func callerFrom(ctx context.Context) *links.Caller {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil
	}

	return &links.Caller{ID: user.ID, Admin: user.IsAdmin}
}

// ShortenRequest is the request for creating a short link.
type ShortenRequest struct {
	Body struct {
		Link       string  `doc:"The URL to shorten"            example:"https://example.com/very/long/path" json:"link"`
		CustomSlug *string `doc:"Optional user-chosen slug"     example:"my-link"                            json:"custom_slug,omitempty"`
		DomainID   int64   `doc:"Domain to shorten under"       example:"1"                                  json:"domain_id"`
	}
}

// ShortenResponse is the response for a successfully shortened link.
type ShortenResponse struct {
	Body links.LinkWithDomain
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	link, err := h.links.Create(ctx, callerFrom(ctx), links.CreateParams{
		OriginalLink: req.Body.Link,
		CustomSlug:   req.Body.CustomSlug,
		DomainID:     req.Body.DomainID,
	})
	if err != nil {
		switch {
		case errors.Is(err, links.ErrNotAllowed):
			return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
		case errors.Is(err, links.ErrInvalidURL):
			return nil, huma.Error400BadRequest("Provided link is not a valid URL.")
		case errors.Is(err, links.ErrReserved):
			return nil, huma.Error400BadRequest("Custom slug contains prohibited value.")
		case errors.Is(err, links.ErrConflict):
			return nil, huma.Error409Conflict("Slug already exists.")
		case errors.Is(err, domains.ErrNotFound):
			return nil, huma.Error404NotFound("Domain not found.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &ShortenResponse{Body: *link}, nil
}

// DeleteLinkRequest identifies the link to delete by slug.
type DeleteLinkRequest struct {
	Slug string `doc:"Slug of the link to delete" example:"abc123" path:"slug"`
}

func (h *LinkHandler) Delete(ctx context.Context, req *DeleteLinkRequest) (*MessageResponse, error) {
	if err := h.links.Delete(ctx, callerFrom(ctx), req.Slug); err != nil {
		switch {
		case errors.Is(err, links.ErrNotAllowed):
			return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
		case errors.Is(err, links.ErrNotFound):
			return nil, huma.Error404NotFound("Slug not found.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Slug deleted."), nil
}
