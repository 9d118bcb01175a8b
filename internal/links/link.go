package links

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("slug not found")
	ErrConflict = errors.New("slug already exists")
)

// Link maps a slug (and optionally a user-chosen custom slug) to a
// destination URL under one domain. OwnerID is nil for anonymous links.
type Link struct {
	ID           int64     `json:"id"`
	DomainID     int64     `json:"domain_id"`
	Slug         string    `json:"slug"`
	CustomSlug   *string   `json:"custom_slug,omitempty"`
	OriginalLink string    `json:"original_link"`
	OwnerID      *int64    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LinkWithDomain is a link joined with its domain's hostname, used in
// per-user listings.
type LinkWithDomain struct {
	Link
	Domain string `json:"domain"`
}

// Repository defines link storage operations. Create must report ErrConflict
// when the slug or custom slug collides with an existing row, which is the
// final guarantee behind the service-level pre-checks.
type Repository interface {
	Create(ctx context.Context, link *Link) error
	// GetBySlug matches either the generated slug or the custom slug.
	GetBySlug(ctx context.Context, slug string) (*Link, error)
	// GetByDomainSlug is the domain-scoped variant used by redirects.
	GetByDomainSlug(ctx context.Context, domainID int64, slug string) (*Link, error)
	ListByOwner(ctx context.Context, ownerID, page, perPage int64) ([]LinkWithDomain, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
