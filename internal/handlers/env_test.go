package handlers_test

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/auth"
	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/middleware"
	"github.com/shurlix/shurlix/internal/store"
	"github.com/shurlix/shurlix/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	baseHost     = "sho.rt"
	testPassword = "correct horse battery staple"
)

// env wires the handlers against in-memory stores.
type env struct {
	userStore   *store.MemoryUserStore
	tokenStore  *store.MemoryTokenStore
	domainStore *store.MemoryDomainStore
	linkStore   *store.MemoryLinkStore

	users   *users.Service
	links   *links.Service
	domains *domains.Service

	baseDomain *domains.Domain
}

type envOptions struct {
	usersCfg       users.ServiceConfig
	allowAnonymous bool
}

func defaultOptions() envOptions {
	return envOptions{
		usersCfg: users.ServiceConfig{
			MinPasswordStrength: 3,
			AllowRegistering:    true,
		},
		allowAnonymous: true,
	}
}

func newEnv(t *testing.T) *env {
	return newCustomEnv(t, defaultOptions())
}

func newCustomEnv(t *testing.T, opts envOptions) *env {
	t.Helper()

	e := &env{
		userStore:   store.NewMemoryUserStore(),
		domainStore: store.NewMemoryDomainStore(),
	}
	e.tokenStore = store.NewMemoryTokenStore(e.userStore)
	e.linkStore = store.NewMemoryLinkStore(e.domainStore)

	e.baseDomain = &domains.Domain{Domain: baseHost, Public: true}
	require.NoError(t, e.domainStore.Create(context.Background(), e.baseDomain))

	generate, err := links.NewSlugGenerator(6)
	require.NoError(t, err)

	newToken := func() string { return "fixed-token" }

	e.users = users.NewService(e.userStore, e.tokenStore, opts.usersCfg, nil, newToken, zap.NewNop())
	e.links = links.NewService(e.linkStore, e.domainStore, generate, opts.allowAnonymous)
	e.domains = domains.NewService(e.domainStore, baseHost)

	return e
}

// addUser seeds an account directly in the store, bypassing registration
// policy, and returns the stored record.
func (e *env) addUser(t *testing.T, username string, admin bool) *users.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := &users.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	require.NoError(t, e.userStore.Create(context.Background(), user))

	return user
}

// authed returns a context carrying the given user, the way the session
// middleware would.
func authed(user *users.User) context.Context {
	return middleware.ContextWithUser(context.Background(), user)
}

// assertStatus checks the HTTP status and message a handler error maps to.
func assertStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var se huma.StatusError

	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.GetStatus())
	assert.Equal(t, msg, err.Error())
}
