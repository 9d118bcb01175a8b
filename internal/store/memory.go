package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/users"
)

// In-memory repository implementations backing handler and service tests.
// They enforce the same uniqueness rules as the PostgreSQL schema.

// MemoryLinkStore is an in-memory implementation of links.Repository.
type MemoryLinkStore struct {
	mu      sync.RWMutex
	nextID  int64
	links   map[int64]links.Link
	domains *MemoryDomainStore
}

func NewMemoryLinkStore(domainStore *MemoryDomainStore) *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[int64]links.Link), domains: domainStore}
}

func (m *MemoryLinkStore) Create(_ context.Context, link *links.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.links {
		if m.slugTaken(existing, link.Slug) {
			return links.ErrConflict
		}

		if link.CustomSlug != nil && m.slugTaken(existing, *link.CustomSlug) {
			return links.ErrConflict
		}
	}

	m.nextID++
	link.ID = m.nextID
	link.CreatedAt = time.Now()
	link.UpdatedAt = link.CreatedAt
	m.links[link.ID] = *link

	return nil
}

func (m *MemoryLinkStore) slugTaken(existing links.Link, slug string) bool {
	return existing.Slug == slug || (existing.CustomSlug != nil && *existing.CustomSlug == slug)
}

func (m *MemoryLinkStore) GetBySlug(_ context.Context, slug string) (*links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if m.slugTaken(link, slug) {
			found := link

			return &found, nil
		}
	}

	return nil, links.ErrNotFound
}

func (m *MemoryLinkStore) GetByDomainSlug(_ context.Context, domainID int64, slug string) (*links.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if link.DomainID == domainID && m.slugTaken(link, slug) {
			found := link

			return &found, nil
		}
	}

	return nil, links.ErrNotFound
}

func (m *MemoryLinkStore) ListByOwner(ctx context.Context, ownerID, page, perPage int64) ([]links.LinkWithDomain, error) {
	m.mu.RLock()

	owned := []links.Link{}

	for _, link := range m.links {
		if link.OwnerID != nil && *link.OwnerID == ownerID {
			owned = append(owned, link)
		}
	}
	m.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}

		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	offset := (page - 1) * perPage
	if offset > int64(len(owned)) {
		offset = int64(len(owned))
	}

	end := offset + perPage
	if end > int64(len(owned)) {
		end = int64(len(owned))
	}

	items := []links.LinkWithDomain{}

	for _, link := range owned[offset:end] {
		host := ""
		if m.domains != nil {
			if d, err := m.domains.GetByID(ctx, link.DomainID); err == nil {
				host = d.Domain
			}
		}

		items = append(items, links.LinkWithDomain{Link: link, Domain: host})
	}

	return items, nil
}

func (m *MemoryLinkStore) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for _, link := range m.links {
		if link.OwnerID != nil && *link.OwnerID == ownerID {
			count++
		}
	}

	return count, nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return links.ErrNotFound
	}

	delete(m.links, id)

	return nil
}

// MemoryDomainStore is an in-memory implementation of domains.Repository.
type MemoryDomainStore struct {
	mu      sync.RWMutex
	nextID  int64
	domains map[int64]domains.Domain
}

func NewMemoryDomainStore() *MemoryDomainStore {
	return &MemoryDomainStore{domains: make(map[int64]domains.Domain)}
}

func (m *MemoryDomainStore) Create(_ context.Context, d *domains.Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.domains {
		if existing.Domain == d.Domain {
			return domains.ErrConflict
		}
	}

	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.domains[d.ID] = *d

	return nil
}

func (m *MemoryDomainStore) GetByID(_ context.Context, id int64) (*domains.Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.domains[id]
	if !ok {
		return nil, domains.ErrNotFound
	}

	return &d, nil
}

func (m *MemoryDomainStore) GetByHost(_ context.Context, host string) (*domains.Domain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.domains {
		if d.Domain == host {
			found := d

			return &found, nil
		}
	}

	return nil, domains.ErrNotFound
}

func (m *MemoryDomainStore) ListPublic(_ context.Context) ([]domains.Domain, error) {
	return m.listWhere(func(d domains.Domain) bool { return d.Public }), nil
}

func (m *MemoryDomainStore) ListAll(_ context.Context) ([]domains.Domain, error) {
	return m.listWhere(func(domains.Domain) bool { return true }), nil
}

func (m *MemoryDomainStore) ListPage(_ context.Context, page, perPage int64) ([]domains.Domain, error) {
	all := m.listWhere(func(domains.Domain) bool { return true })

	offset := (page - 1) * perPage
	if offset > int64(len(all)) {
		offset = int64(len(all))
	}

	end := offset + perPage
	if end > int64(len(all)) {
		end = int64(len(all))
	}

	return all[offset:end], nil
}

func (m *MemoryDomainStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.domains)), nil
}

func (m *MemoryDomainStore) Update(_ context.Context, id int64, update domains.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.domains[id]
	if !ok {
		return domains.ErrNotFound
	}

	if update.Domain != nil {
		for otherID, other := range m.domains {
			if otherID != id && other.Domain == *update.Domain {
				return domains.ErrConflict
			}
		}

		d.Domain = *update.Domain
	}

	if update.Public != nil {
		d.Public = *update.Public
	}

	d.UpdatedAt = time.Now()
	m.domains[id] = d

	return nil
}

func (m *MemoryDomainStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.domains[id]; !ok {
		return domains.ErrNotFound
	}

	delete(m.domains, id)

	return nil
}

func (m *MemoryDomainStore) listWhere(keep func(domains.Domain) bool) []domains.Domain {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := []domains.Domain{}

	for _, d := range m.domains {
		if keep(d) {
			items = append(items, d)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items
}

// MemoryUserStore is an in-memory implementation of users.Repository.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]users.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]users.User)}
}

func (m *MemoryUserStore) Create(_ context.Context, u *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return users.ErrConflict
		}
	}

	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	m.users[u.ID] = *u

	return nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}

	return &u, nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			found := u

			return &found, nil
		}
	}

	return nil, users.ErrNotFound
}

func (m *MemoryUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}

	return false, nil
}

func (m *MemoryUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}

	return false, nil
}

func (m *MemoryUserStore) Update(_ context.Context, id int64, update users.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return users.ErrNotFound
	}

	if update.Username != nil {
		u.Username = *update.Username
	}

	if update.Email != nil {
		u.Email = *update.Email
	}

	m.users[id] = u

	return nil
}

func (m *MemoryUserStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return users.ErrNotFound
	}

	u.PasswordHash = hash
	m.users[id] = u

	return nil
}

func (m *MemoryUserStore) SetVerifiedAt(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return users.ErrNotFound
	}

	u.VerifiedAt = &at
	m.users[id] = u

	return nil
}

func (m *MemoryUserStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return users.ErrNotFound
	}

	delete(m.users, id)

	return nil
}

// MemoryTokenStore is an in-memory implementation of users.TokenRepository.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	nextID int64
	tokens map[int64]users.VerificationToken
	users  *MemoryUserStore
}

func NewMemoryTokenStore(userStore *MemoryUserStore) *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[int64]users.VerificationToken), users: userStore}
}

func (m *MemoryTokenStore) Create(_ context.Context, t *users.VerificationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now()
	m.tokens[t.ID] = *t

	return nil
}

func (m *MemoryTokenStore) GetByToken(ctx context.Context, token string) (*users.VerificationToken, *users.User, error) {
	m.mu.RLock()

	var found *users.VerificationToken

	for _, t := range m.tokens {
		if t.Token == token {
			record := t
			found = &record

			break
		}
	}
	m.mu.RUnlock()

	if found == nil {
		return nil, nil, users.ErrTokenNotFound
	}

	owner, err := m.users.GetByID(ctx, found.UserID)
	if err != nil {
		return nil, nil, users.ErrTokenNotFound
	}

	return found, owner, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, id)

	return nil
}

func (m *MemoryTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64

	for id, t := range m.tokens {
		if now.After(t.ExpiresAt) {
			delete(m.tokens, id)
			count++
		}
	}

	return count, nil
}
