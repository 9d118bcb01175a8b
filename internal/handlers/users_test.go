package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shurlix/shurlix/internal/auth"
	"github.com/shurlix/shurlix/internal/handlers"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newUserHandler(e *env) *handlers.UserHandler {
	return handlers.NewUserHandler(e.users, e.links, testSecret, zap.NewNop())
}

func registerRequest() *handlers.RegisterRequest {
	req := &handlers.RegisterRequest{}
	req.Body.Username = "alice"
	req.Body.Email = "alice@example.com"
	req.Body.ConfirmEmail = "alice@example.com"
	req.Body.Password = testPassword
	req.Body.ConfirmPassword = testPassword

	return req
}

func TestRegister(t *testing.T) {
	t.Run("creates the account", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		resp, err := handler.Register(context.Background(), registerRequest())

		require.NoError(t, err)
		assert.NotZero(t, resp.Body.ID)
		assert.Equal(t, "alice", resp.Body.Username)
		assert.Equal(t, "alice@example.com", resp.Body.Email)
	})

	t.Run("rejects mismatched confirmation fields", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		req := registerRequest()
		req.Body.ConfirmPassword = "something else"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusBadRequest, "Confirmation fields don't match.")
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		req := registerRequest()
		req.Body.Email = "not-an-email"
		req.Body.ConfirmEmail = "not-an-email"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusBadRequest, "Invalid email.")
	})

	t.Run("rejects a weak password", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		req := registerRequest()
		req.Body.Password = "password"
		req.Body.ConfirmPassword = "password"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusConflict, "Password is not strong enough.")
	})

	t.Run("rejects taken email and username", func(t *testing.T) {
		e := newEnv(t)
		e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		_, err := handler.Register(context.Background(), registerRequest())
		assertStatus(t, err, http.StatusConflict, "Email already in use.")

		req := registerRequest()
		req.Body.Email = "alice2@example.com"
		req.Body.ConfirmEmail = "alice2@example.com"

		_, err = handler.Register(context.Background(), req)
		assertStatus(t, err, http.StatusConflict, "Username already in use.")
	})

	t.Run("rejected when registering is disabled", func(t *testing.T) {
		opts := defaultOptions()
		opts.usersCfg.AllowRegistering = false
		handler := newUserHandler(newCustomEnv(t, opts))

		_, err := handler.Register(context.Background(), registerRequest())

		assertStatus(t, err, http.StatusUnauthorized, "You are not allowed to perform this action.")
	})
}

func TestLogin(t *testing.T) {
	t.Run("sets the session cookie and returns the user", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		req := &handlers.LoginRequest{}
		req.Body.Email = "alice@example.com"
		req.Body.Password = testPassword

		resp, err := handler.Login(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, auth.CookieName, resp.Headers.SetCookie.Name)
		assert.Equal(t, resp.Body.Token, resp.Headers.SetCookie.Value)
		assert.True(t, resp.Headers.SetCookie.HttpOnly)
		assert.Equal(t, user.ID, resp.Body.User.ID)
		assert.Equal(t, "alice", resp.Body.User.Username)

		userID, err := auth.ParseToken(resp.Body.Token, testSecret)

		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("unknown email and wrong password yield the same error", func(t *testing.T) {
		e := newEnv(t)
		e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		req := &handlers.LoginRequest{}
		req.Body.Email = "nobody@example.com"
		req.Body.Password = testPassword

		_, err := handler.Login(context.Background(), req)
		assertStatus(t, err, http.StatusUnauthorized, "Invalid credentials.")

		req.Body.Email = "alice@example.com"
		req.Body.Password = "wrong"

		_, err = handler.Login(context.Background(), req)
		assertStatus(t, err, http.StatusUnauthorized, "Invalid credentials.")
	})
}

func TestLogout(t *testing.T) {
	handler := newUserHandler(newEnv(t))

	resp, err := handler.Logout(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Logged out.", resp.Body.Message)
	assert.Equal(t, auth.CookieName, resp.Headers.SetCookie.Name)
	assert.Negative(t, resp.Headers.SetCookie.MaxAge)
}

func TestProfile(t *testing.T) {
	t.Run("returns the sanitized user", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		resp, err := handler.Profile(authed(user), nil)

		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.Body.ID)
		assert.Equal(t, "alice", resp.Body.Username)
		assert.Equal(t, "alice@example.com", resp.Body.Email)
	})

	t.Run("requires a session", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		_, err := handler.Profile(context.Background(), nil)

		assertStatus(t, err, http.StatusUnauthorized, "Invalid credentials.")
	})
}

func TestMyLinks(t *testing.T) {
	e := newEnv(t)
	user := e.addUser(t, "alice", false)
	handler := newUserHandler(e)

	for i := 0; i < 3; i++ {
		_, err := e.links.Create(context.Background(), &links.Caller{ID: user.ID}, links.CreateParams{
			OriginalLink: "https://example.com/page",
			DomainID:     e.baseDomain.ID,
		})
		require.NoError(t, err)
	}

	t.Run("pages through the caller's links", func(t *testing.T) {
		req := &handlers.MyLinksRequest{}
		req.Page = 1
		req.PerPage = 2

		resp, err := handler.MyLinks(authed(user), req)

		require.NoError(t, err)
		assert.Len(t, resp.Body.Items, 2)
		assert.Equal(t, int64(3), resp.Body.TotalCount)
		assert.Equal(t, baseHost, resp.Body.Items[0].Domain)
	})

	t.Run("requires a session", func(t *testing.T) {
		_, err := handler.MyLinks(context.Background(), &handlers.MyLinksRequest{})

		assertStatus(t, err, http.StatusUnauthorized, "You are not allowed to perform this action.")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates the profile fields", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		username := "alice2"
		req := &handlers.UpdateProfileRequest{}
		req.Body.Username = &username

		resp, err := handler.UpdateProfile(authed(user), req)

		require.NoError(t, err)
		assert.Equal(t, "Updated.", resp.Body.Message)

		updated, err := e.userStore.GetByID(context.Background(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, "alice2", updated.Username)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		e.addUser(t, "bob", false)
		handler := newUserHandler(e)

		email := "bob@example.com"
		req := &handlers.UpdateProfileRequest{}
		req.Body.Email = &email

		_, err := handler.UpdateProfile(authed(user), req)

		assertStatus(t, err, http.StatusConflict, "Email already in use.")
	})

	t.Run("requires a session", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		_, err := handler.UpdateProfile(context.Background(), &handlers.UpdateProfileRequest{})

		assertStatus(t, err, http.StatusUnauthorized, "You are not allowed to perform this action.")
	})
}

func TestChangePassword(t *testing.T) {
	newRequest := func(current, next, confirm string) *handlers.ChangePasswordRequest {
		req := &handlers.ChangePasswordRequest{}
		req.Body.Password = current
		req.Body.NewPassword = next
		req.Body.ConfirmPassword = confirm

		return req
	}

	t.Run("changes the password", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		resp, err := handler.ChangePassword(authed(user), newRequest(testPassword, "another long pass phrase", "another long pass phrase"))

		require.NoError(t, err)
		assert.Equal(t, "Password updated.", resp.Body.Message)

		_, err = e.users.Authenticate(context.Background(), "alice@example.com", "another long pass phrase")
		assert.NoError(t, err)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		_, err := handler.ChangePassword(authed(user), newRequest("wrong", "another long pass phrase", "another long pass phrase"))

		assertStatus(t, err, http.StatusUnauthorized, "Invalid credentials.")
	})

	t.Run("rejects a mismatched confirmation", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		_, err := handler.ChangePassword(authed(user), newRequest(testPassword, "phrase one", "phrase two"))

		assertStatus(t, err, http.StatusConflict, "Passwords do not match.")
	})

	t.Run("rejects a weak replacement", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		_, err := handler.ChangePassword(authed(user), newRequest(testPassword, "abc", "abc"))

		assertStatus(t, err, http.StatusConflict, "Password is not strong enough.")
	})
}

func TestCheckPassword(t *testing.T) {
	handler := newUserHandler(newEnv(t))

	req := &handlers.CheckPasswordRequest{}
	req.Body.Password = testPassword

	resp, err := handler.CheckPassword(context.Background(), req)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Body.Score, 3)

	req.Body.Password = "password"

	resp, err = handler.CheckPassword(context.Background(), req)

	require.NoError(t, err)
	assert.Less(t, resp.Body.Score, 3)
}

func TestVerify(t *testing.T) {
	t.Run("verifies the email", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		require.NoError(t, e.tokenStore.Create(context.Background(), &users.VerificationToken{
			UserID:    user.ID,
			Token:     "fixed-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		resp, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Token: "fixed-token"})

		require.NoError(t, err)
		assert.Equal(t, "Email verified.", resp.Body.Message)

		verified, err := e.userStore.GetByID(context.Background(), user.ID)

		require.NoError(t, err)
		assert.NotNil(t, verified.VerifiedAt)
	})

	t.Run("unknown token yields 404", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		_, err := handler.Verify(context.Background(), &handlers.VerifyRequest{Token: "no-such-token"})

		assertStatus(t, err, http.StatusNotFound, "Token expired or invalid.")
	})
}

func TestDeleteMe(t *testing.T) {
	t.Run("deletes the account", func(t *testing.T) {
		e := newEnv(t)
		user := e.addUser(t, "alice", false)
		handler := newUserHandler(e)

		resp, err := handler.DeleteMe(authed(user), nil)

		require.NoError(t, err)
		assert.Equal(t, "Deleted.", resp.Body.Message)

		_, err = e.userStore.GetByID(context.Background(), user.ID)
		assert.ErrorIs(t, err, users.ErrNotFound)
	})

	t.Run("requires a session", func(t *testing.T) {
		handler := newUserHandler(newEnv(t))

		_, err := handler.DeleteMe(context.Background(), nil)

		assertStatus(t, err, http.StatusUnauthorized, "You are not allowed to perform this action.")
	})
}
