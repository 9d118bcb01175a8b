package middleware

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/auth"
	"github.com/shurlix/shurlix/internal/users"
)

type contextKey string

const userKey contextKey = "authenticatedUser"

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, u *users.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(userKey).(*users.User)

	return u, ok
}

// Authenticate resolves the session cookie into a user and stores it in the
// request context. Requests without a valid token proceed anonymously.
func Authenticate(secret []byte, store users.Repository) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cookie, err := huma.ReadCookie(ctx, auth.CookieName)
		if err != nil {
			next(ctx)

			return
		}

		userID, err := auth.ParseToken(cookie.Value, secret)
		if err != nil {
			next(ctx)

			return
		}

		user, err := store.GetByID(ctx.Context(), userID)
		if err != nil {
			next(ctx)

			return
		}

		ctx = huma.WithContext(ctx, ContextWithUser(ctx.Context(), user))

		next(ctx)
	}
}
