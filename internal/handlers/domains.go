package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/middleware"
)

// DomainHandler handles admin domain management and the public domain lists.
type DomainHandler struct {
	domains *domains.Service
}

// NewDomainHandler creates a new domain handler.
func NewDomainHandler(service *domains.Service) *DomainHandler {
	return &DomainHandler{domains: service}
}

// requireAdmin returns the 401 every admin-gated operation shares, or nil.
func requireAdmin(ctx context.Context) error {
	user, ok := middleware.UserFromContext(ctx)
	if !ok || !user.IsAdmin {
		return huma.Error401Unauthorized("You are not allowed to perform this action.")
	}

	return nil
}

// CreateDomainRequest is the request body for registering a domain.
type CreateDomainRequest struct {
	Body struct {
		Domain string `doc:"Hostname or URL of the domain" example:"https://sho.rt" json:"domain"`
		Public *bool  `doc:"Whether any user may shorten on it"                     json:"public,omitempty"`
	}
}

// DomainResponse carries a single domain record.
type DomainResponse struct {
	Body domains.Domain
}

func (h *DomainHandler) Create(ctx context.Context, req *CreateDomainRequest) (*DomainResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	public := false
	if req.Body.Public != nil {
		public = *req.Body.Public
	}

	domain, err := h.domains.Create(ctx, req.Body.Domain, public)
	if err != nil {
		switch {
		case errors.Is(err, domains.ErrInvalidHost):
			return nil, huma.Error400BadRequest("Provided domain is not a valid URL.")
		case errors.Is(err, domains.ErrConflict):
			return nil, huma.Error409Conflict("Domain already exists.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &DomainResponse{Body: *domain}, nil
}

// UpdateDomainRequest carries the optional domain fields to change.
type UpdateDomainRequest struct {
	ID   int64 `doc:"Domain ID" path:"id"`
	Body struct {
		Domain *string `doc:"New hostname or URL"   json:"domain,omitempty"`
		Public *bool   `doc:"New public flag"       json:"public,omitempty"`
	}
}

func (h *DomainHandler) Update(ctx context.Context, req *UpdateDomainRequest) (*MessageResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := h.domains.Update(ctx, req.ID, req.Body.Domain, req.Body.Public); err != nil {
		switch {
		case errors.Is(err, domains.ErrInvalidHost):
			return nil, huma.Error400BadRequest("Provided domain is not a valid URL.")
		case errors.Is(err, domains.ErrConflict):
			return nil, huma.Error409Conflict("Domain already exists.")
		case errors.Is(err, domains.ErrNotFound):
			return nil, huma.Error404NotFound("Domain not found.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Updated."), nil
}

// DeleteDomainRequest identifies the domain to delete.
type DeleteDomainRequest struct {
	ID int64 `doc:"Domain ID" path:"id"`
}

func (h *DomainHandler) Delete(ctx context.Context, req *DeleteDomainRequest) (*MessageResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := h.domains.Delete(ctx, req.ID); err != nil {
		switch {
		case errors.Is(err, domains.ErrNotFound):
			return nil, huma.Error404NotFound("Domain not found.")
		case errors.Is(err, domains.ErrBaseDomain):
			return nil, huma.Error403Forbidden("You are not allowed to delete the base url.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Domain deleted."), nil
}

// ListDomainsRequest selects one admin page of domains.
type ListDomainsRequest struct {
	PaginationQuery
}

// PagedDomainsResponse is one admin page of domains.
type PagedDomainsResponse struct {
	Body PaginatedResponse[domains.Domain]
}

func (h *DomainHandler) ListPaged(ctx context.Context, req *ListDomainsRequest) (*PagedDomainsResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	items, total, err := h.domains.ListPage(ctx, req.Page, req.PerPage)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &PagedDomainsResponse{Body: PaginatedResponse[domains.Domain]{Items: items, TotalCount: total}}, nil
}

// DomainListResponse is a flat list of domains.
type DomainListResponse struct {
	Body []domains.Domain
}

func (h *DomainHandler) ListPublic(ctx context.Context, _ *struct{}) (*DomainListResponse, error) {
	items, err := h.domains.ListPublic(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &DomainListResponse{Body: items}, nil
}

// ListAll returns every domain for admins and only public ones for everyone
// else.
func (h *DomainHandler) ListAll(ctx context.Context, _ *struct{}) (*DomainListResponse, error) {
	admin := false
	if user, ok := middleware.UserFromContext(ctx); ok {
		admin = user.IsAdmin
	}

	items, err := h.domains.ListFor(ctx, admin)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &DomainListResponse{Body: items}, nil
}
