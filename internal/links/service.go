package links

import (
	"context"
	"errors"
	"net/url"

	"github.com/shurlix/shurlix/internal/domains"
)

var (
	// ErrNotAllowed covers every authorization failure in this package:
	// anonymous shortening while disabled, non-admin use of a private
	// domain, and deleting a link the caller does not own.
	ErrNotAllowed = errors.New("you are not allowed to perform this action")
	ErrInvalidURL = errors.New("provided link is not a valid URL")
	ErrReserved   = errors.New("custom slug contains prohibited value")
)

// slugAttempts bounds the regeneration loop when a generated slug collides.
const slugAttempts = 3

// Caller identifies the (optional) authenticated user on whose behalf an
// operation runs. A nil *Caller means anonymous.
type Caller struct {
	ID    int64
	Admin bool
}

// CreateParams are the inputs for shortening a URL.
type CreateParams struct {
	OriginalLink string
	CustomSlug   *string
	DomainID     int64
}

// Service implements link creation, deletion and listing.
type Service struct {
	store          Repository
	domains        domains.Repository
	generate       SlugGenerator
	allowAnonymous bool
}

func NewService(store Repository, domainStore domains.Repository, generate SlugGenerator, allowAnonymous bool) *Service {
	return &Service{
		store:          store,
		domains:        domainStore,
		generate:       generate,
		allowAnonymous: allowAnonymous,
	}
}

// Create shortens a URL on the given domain. The returned LinkWithDomain
// carries the resolved domain hostname.
func (s *Service) Create(ctx context.Context, caller *Caller, params CreateParams) (*LinkWithDomain, error) {
	if caller == nil && !s.allowAnonymous {
		return nil, ErrNotAllowed
	}

	if !isURL(params.OriginalLink) {
		return nil, ErrInvalidURL
	}

	if params.CustomSlug != nil {
		if IsReserved(*params.CustomSlug) {
			return nil, ErrReserved
		}

		if _, err := s.store.GetBySlug(ctx, *params.CustomSlug); err == nil {
			return nil, ErrConflict
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	domain, err := s.domains.GetByID(ctx, params.DomainID)
	if err != nil {
		return nil, err
	}

	if !domain.Public && (caller == nil || !caller.Admin) {
		return nil, ErrNotAllowed
	}

	link := &Link{
		DomainID:     domain.ID,
		CustomSlug:   params.CustomSlug,
		OriginalLink: params.OriginalLink,
	}
	if caller != nil {
		ownerID := caller.ID
		link.OwnerID = &ownerID
	}

	// The store's unique constraints are the real uniqueness guarantee; a
	// generated-slug collision just gets a fresh slug and another attempt.
	for attempt := 0; attempt < slugAttempts; attempt++ {
		link.Slug = s.generate()

		err = s.store.Create(ctx, link)
		if err == nil {
			return &LinkWithDomain{Link: *link, Domain: domain.Domain}, nil
		}

		if !errors.Is(err, ErrConflict) || params.CustomSlug != nil {
			return nil, err
		}
	}

	return nil, err
}

// Delete removes a link by slug. Only the owner may delete it; anonymous
// links have no owner and cannot be deleted through this path.
func (s *Service) Delete(ctx context.Context, caller *Caller, slug string) error {
	if caller == nil {
		return ErrNotAllowed
	}

	link, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if link.OwnerID == nil || *link.OwnerID != caller.ID {
		return ErrNotAllowed
	}

	return s.store.Delete(ctx, link.ID)
}

// ListByOwner returns one page of the caller's links, newest first, plus the
// total count for pagination.
func (s *Service) ListByOwner(ctx context.Context, ownerID, page, perPage int64) ([]LinkWithDomain, int64, error) {
	items, err := s.store.ListByOwner(ctx, ownerID, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Resolve finds the active link for a slug within one domain. Used by the
// public redirect path.
func (s *Service) Resolve(ctx context.Context, domainID int64, slug string) (*Link, error) {
	return s.store.GetByDomainSlug(ctx, domainID, slug)
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)

	return err == nil && u.Scheme != "" && u.Host != ""
}
