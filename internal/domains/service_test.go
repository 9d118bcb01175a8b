package domains_test

import (
	"context"
	"testing"

	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDomainService(t *testing.T) (*domains.Service, *store.MemoryDomainStore) {
	t.Helper()

	domainStore := store.NewMemoryDomainStore()

	return domains.NewService(domainStore, "sho.rt"), domainStore
}

func TestDomainService_Create(t *testing.T) {
	t.Run("normalizes the hostname before storing", func(t *testing.T) {
		service, _ := newDomainService(t)

		domain, err := service.Create(context.Background(), "https://links.example.com/ignored", true)

		require.NoError(t, err)
		assert.Equal(t, "links.example.com", domain.Domain)
		assert.True(t, domain.Public)
		assert.NotZero(t, domain.ID)
	})

	t.Run("rejects duplicates after normalization", func(t *testing.T) {
		service, _ := newDomainService(t)

		_, err := service.Create(context.Background(), "links.example.com", true)
		require.NoError(t, err)

		_, err = service.Create(context.Background(), "http://links.example.com", false)

		assert.ErrorIs(t, err, domains.ErrConflict)
	})

	t.Run("rejects invalid hostnames", func(t *testing.T) {
		service, _ := newDomainService(t)

		_, err := service.Create(context.Background(), "not a host", true)

		assert.ErrorIs(t, err, domains.ErrInvalidHost)
	})
}

func TestDomainService_Update(t *testing.T) {
	t.Run("updates hostname and public flag", func(t *testing.T) {
		service, domainStore := newDomainService(t)

		created, err := service.Create(context.Background(), "old.example.com", false)
		require.NoError(t, err)

		newHost := "https://new.example.com"
		public := true

		require.NoError(t, service.Update(context.Background(), created.ID, &newHost, &public))

		updated, err := domainStore.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new.example.com", updated.Domain)
		assert.True(t, updated.Public)
	})

	t.Run("rejects a hostname collision with another domain", func(t *testing.T) {
		service, _ := newDomainService(t)

		_, err := service.Create(context.Background(), "one.example.com", true)
		require.NoError(t, err)

		two, err := service.Create(context.Background(), "two.example.com", true)
		require.NoError(t, err)

		collision := "one.example.com"

		err = service.Update(context.Background(), two.ID, &collision, nil)

		assert.ErrorIs(t, err, domains.ErrConflict)
	})

	t.Run("keeping the same hostname is not a collision", func(t *testing.T) {
		service, _ := newDomainService(t)

		created, err := service.Create(context.Background(), "one.example.com", true)
		require.NoError(t, err)

		same := "one.example.com"
		public := false

		assert.NoError(t, service.Update(context.Background(), created.ID, &same, &public))
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		service, _ := newDomainService(t)

		public := true

		err := service.Update(context.Background(), 42, nil, &public)

		assert.ErrorIs(t, err, domains.ErrNotFound)
	})
}

func TestDomainService_Delete(t *testing.T) {
	t.Run("deletes a secondary domain", func(t *testing.T) {
		service, domainStore := newDomainService(t)

		created, err := service.Create(context.Background(), "links.example.com", true)
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), created.ID))

		_, err = domainStore.GetByID(context.Background(), created.ID)
		assert.ErrorIs(t, err, domains.ErrNotFound)
	})

	t.Run("never deletes the base domain", func(t *testing.T) {
		service, _ := newDomainService(t)

		base, err := service.Create(context.Background(), "sho.rt", true)
		require.NoError(t, err)

		err = service.Delete(context.Background(), base.ID)

		assert.ErrorIs(t, err, domains.ErrBaseDomain)
	})
}

func TestDomainService_Listing(t *testing.T) {
	service, _ := newDomainService(t)

	_, err := service.Create(context.Background(), "public.example.com", true)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "private.example.com", false)
	require.NoError(t, err)

	t.Run("admins see every domain", func(t *testing.T) {
		items, err := service.ListFor(context.Background(), true)

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("everyone else sees only public domains", func(t *testing.T) {
		items, err := service.ListFor(context.Background(), false)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "public.example.com", items[0].Domain)
	})

	t.Run("pages carry the total count", func(t *testing.T) {
		items, total, err := service.ListPage(context.Background(), 1, 1)

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(2), total)
	})
}
