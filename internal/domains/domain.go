package domains

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("domain not found")
	ErrConflict = errors.New("domain already exists")
)

// Domain is a tenant hostname under which links and slugs are scoped.
// The hostname is stored without scheme, as host or host:port.
type Domain struct {
	ID        int64     `json:"id"`
	Domain    string    `json:"domain"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update carries the optional fields of a domain update.
type Update struct {
	Domain *string
	Public *bool
}

// Repository defines domain storage operations.
type Repository interface {
	Create(ctx context.Context, d *Domain) error
	GetByID(ctx context.Context, id int64) (*Domain, error)
	GetByHost(ctx context.Context, host string) (*Domain, error)
	ListPublic(ctx context.Context) ([]Domain, error)
	ListAll(ctx context.Context) ([]Domain, error)
	ListPage(ctx context.Context, page, perPage int64) ([]Domain, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, update Update) error
	Delete(ctx context.Context, id int64) error
}
