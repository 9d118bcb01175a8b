package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/auth"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/middleware"
	"github.com/shurlix/shurlix/internal/users"
	"go.uber.org/zap"
)

// timeNow is swappable in tests.
var timeNow = time.Now

// UserHandler handles registration, sessions and profile management.
type UserHandler struct {
	users     *users.Service
	links     *links.Service
	jwtSecret []byte
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *users.Service, linkService *links.Service, jwtSecret []byte, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:     userService,
		links:     linkService,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RegisterRequest is the request body for account creation.
type RegisterRequest struct {
	Body struct {
		Username        string `doc:"Unique username"            json:"username"`
		Email           string `doc:"Email address"              json:"email"`
		ConfirmEmail    string `doc:"Must match email"           json:"confirm_email"`
		Password        string `doc:"Plaintext password"         json:"password"`
		ConfirmPassword string `doc:"Must match password"        json:"confirm_password"`
	}
}

// RegisterResponse carries the minimal public view of a created account.
type RegisterResponse struct {
	Body struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
}

func (h *UserHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := h.users.Register(ctx, users.RegisterParams{
		Username:        req.Body.Username,
		Email:           req.Body.Email,
		ConfirmEmail:    req.Body.ConfirmEmail,
		Password:        req.Body.Password,
		ConfirmPassword: req.Body.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotAllowed):
			return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
		case errors.Is(err, users.ErrFieldMismatch):
			return nil, huma.Error400BadRequest("Confirmation fields don't match.")
		case errors.Is(err, users.ErrInvalidEmail):
			return nil, huma.Error400BadRequest("Invalid email.")
		case errors.Is(err, users.ErrWeakPassword):
			return nil, huma.Error409Conflict("Password is not strong enough.")
		case errors.Is(err, users.ErrEmailTaken):
			return nil, huma.Error409Conflict("Email already in use.")
		case errors.Is(err, users.ErrUsernameTaken):
			return nil, huma.Error409Conflict("Username already in use.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	resp := &RegisterResponse{}
	resp.Body.ID = user.ID
	resp.Body.Username = user.Username
	resp.Body.Email = user.Email

	return resp, nil
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Body struct {
		Email    string `doc:"Email address"      json:"email"`
		Password string `doc:"Plaintext password" json:"password"`
	}
}

// LoginResponse sets the session cookie and returns the token alongside the
// authenticated user.
type LoginResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body struct {
		Token string              `json:"token"`
		User  users.SanitizedUser `json:"user"`
	}
}

func (h *UserHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := h.users.Authenticate(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("Invalid credentials.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	token, err := auth.IssueToken(user.ID, h.jwtSecret, timeNow())
	if err != nil {
		h.logger.Error("failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	resp := &LoginResponse{}
	resp.Headers.SetCookie = auth.SessionCookie(token)
	resp.Body.Token = token
	resp.Body.User = user.Sanitize()

	return resp, nil
}

// LogoutResponse clears the session cookie.
type LogoutResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body GenericMessage
}

func (h *UserHandler) Logout(_ context.Context, _ *struct{}) (*LogoutResponse, error) {
	resp := &LogoutResponse{Body: GenericMessage{Message: "Logged out."}}
	resp.Headers.SetCookie = auth.ExpiredCookie()

	return resp, nil
}

// ProfileResponse is the client-facing view of the authenticated user.
type ProfileResponse struct {
	Body users.SanitizedUser
}

func (h *UserHandler) Profile(ctx context.Context, _ *struct{}) (*ProfileResponse, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Invalid credentials.")
	}

	return &ProfileResponse{Body: user.Sanitize()}, nil
}

// MyLinksRequest selects one page of the caller's links.
type MyLinksRequest struct {
	PaginationQuery
}

// MyLinksResponse is one page of the caller's links.
type MyLinksResponse struct {
	Body PaginatedResponse[links.LinkWithDomain]
}

func (h *UserHandler) MyLinks(ctx context.Context, req *MyLinksRequest) (*MyLinksResponse, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
	}

	items, total, err := h.links.ListByOwner(ctx, user.ID, req.Page, req.PerPage)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return &MyLinksResponse{Body: PaginatedResponse[links.LinkWithDomain]{Items: items, TotalCount: total}}, nil
}

// UpdateProfileRequest carries the optional profile fields to change.
type UpdateProfileRequest struct {
	Body struct {
		Username *string `doc:"New username" json:"username,omitempty"`
		Email    *string `doc:"New email"    json:"email,omitempty"`
	}
}

func (h *UserHandler) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*MessageResponse, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
	}

	err := h.users.UpdateProfile(ctx, user, users.ProfileUpdate{
		Username: req.Body.Username,
		Email:    req.Body.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidEmail):
			return nil, huma.Error400BadRequest("Invalid email.")
		case errors.Is(err, users.ErrEmailTaken):
			return nil, huma.Error409Conflict("Email already in use.")
		case errors.Is(err, users.ErrUsernameTaken):
			return nil, huma.Error409Conflict("Username already in use.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Updated."), nil
}

// ChangePasswordRequest carries the current password and its replacement.
type ChangePasswordRequest struct {
	Body struct {
		Password        string `doc:"Current password"           json:"password"`
		NewPassword     string `doc:"New password"               json:"new_password"`
		ConfirmPassword string `doc:"Must match new password"    json:"confirm_password"`
	}
}

func (h *UserHandler) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*MessageResponse, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
	}

	err := h.users.ChangePassword(ctx, user, req.Body.Password, req.Body.NewPassword, req.Body.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidCredentials):
			return nil, huma.Error401Unauthorized("Invalid credentials.")
		case errors.Is(err, users.ErrFieldMismatch):
			return nil, huma.Error409Conflict("Passwords do not match.")
		case errors.Is(err, users.ErrWeakPassword):
			return nil, huma.Error409Conflict("Password is not strong enough.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Password updated."), nil
}

// CheckPasswordRequest carries a candidate password to score.
type CheckPasswordRequest struct {
	Body struct {
		Password string `doc:"Candidate password" json:"password"`
	}
}

// CheckPasswordResponse reports the strength score in the 0-4 range.
type CheckPasswordResponse struct {
	Body struct {
		Score int `doc:"Strength score from 0 (weakest) to 4" json:"score"`
	}
}

func (h *UserHandler) CheckPassword(_ context.Context, req *CheckPasswordRequest) (*CheckPasswordResponse, error) {
	resp := &CheckPasswordResponse{}
	resp.Body.Score = h.users.CheckStrength(req.Body.Password)

	return resp, nil
}

// VerifyRequest identifies the email verification token being consumed.
type VerifyRequest struct {
	Token string `doc:"Verification token from the email link" path:"token"`
}

func (h *UserHandler) Verify(ctx context.Context, req *VerifyRequest) (*MessageResponse, error) {
	if err := h.users.Verify(ctx, req.Token); err != nil {
		if errors.Is(err, users.ErrTokenNotFound) {
			return nil, huma.Error404NotFound("Token expired or invalid.")
		}

		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Email verified."), nil
}

func (h *UserHandler) DeleteMe(ctx context.Context, _ *struct{}) (*MessageResponse, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("You are not allowed to perform this action.")
	}

	if err := h.users.Delete(ctx, user.ID); err != nil {
		return nil, huma.Error500InternalServerError("Internal server error.")
	}

	return message("Deleted."), nil
}
