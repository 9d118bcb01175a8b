package domains

import (
	"context"
	"errors"
)

// ErrBaseDomain is returned when a caller tries to delete the domain the app
// itself is served from.
var ErrBaseDomain = errors.New("cannot delete the base url domain")

// Service implements domain management. Admin checks live in the HTTP layer;
// the service enforces the structural invariants.
type Service struct {
	store    Repository
	baseHost string
}

// NewService creates a domain service. baseHost is the normalized host of the
// application base URL, which must always remain registered.
func NewService(store Repository, baseHost string) *Service {
	return &Service{store: store, baseHost: baseHost}
}

// Create registers a new tenant hostname. The raw value may be a full URL;
// it is normalized to host[:port] before storage.
func (s *Service) Create(ctx context.Context, raw string, public bool) (*Domain, error) {
	host, err := NormalizeHost(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetByHost(ctx, host); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	d := &Domain{Domain: host, Public: public}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// Update changes a domain's hostname and/or public flag.
func (s *Service) Update(ctx context.Context, id int64, rawDomain *string, public *bool) error {
	update := Update{Public: public}

	if rawDomain != nil {
		host, err := NormalizeHost(*rawDomain)
		if err != nil {
			return err
		}

		if existing, err := s.store.GetByHost(ctx, host); err == nil && existing.ID != id {
			return ErrConflict
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		update.Domain = &host
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}

	return s.store.Update(ctx, id, update)
}

// Delete removes a domain. The domain matching the application base URL can
// never be deleted: the app must stay reachable on its canonical host.
func (s *Service) Delete(ctx context.Context, id int64) error {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if d.Domain == s.baseHost {
		return ErrBaseDomain
	}

	return s.store.Delete(ctx, id)
}

// ListPage returns one admin page of domains plus the total count.
func (s *Service) ListPage(ctx context.Context, page, perPage int64) ([]Domain, int64, error) {
	items, err := s.store.ListPage(ctx, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListFor returns all domains for admins and only public ones otherwise.
func (s *Service) ListFor(ctx context.Context, admin bool) ([]Domain, error) {
	if admin {
		return s.store.ListAll(ctx)
	}

	return s.store.ListPublic(ctx)
}

// ListPublic returns the domains any caller may see.
func (s *Service) ListPublic(ctx context.Context) ([]Domain, error) {
	return s.store.ListPublic(ctx)
}
