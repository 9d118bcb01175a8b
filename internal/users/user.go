package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrConflict      = errors.New("already in use")
	ErrTokenNotFound = errors.New("token expired or invalid")
)

// User is the persisted account record. PasswordHash never leaves the
// service layer; clients only ever see the sanitized form.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	// VerifiedAt is nil until the email-verification flow completes.
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

// SanitizedUser is the client-facing representation with credential fields
// removed.
type SanitizedUser struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsAdmin    bool       `json:"is_admin"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (u *User) Sanitize() SanitizedUser {
	return SanitizedUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		VerifiedAt: u.VerifiedAt,
		CreatedAt:  u.CreatedAt,
	}
}

// VerificationToken is a single-use, time-limited credential proving control
// of a registered email address. It is deleted when consumed; expired tokens
// are swept by a daily job.
type VerificationToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ProfileUpdate carries the optional fields of a profile update.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

// Repository defines user storage operations. Username and email uniqueness
// probes are case-insensitive.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, update ProfileUpdate) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	SetVerifiedAt(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// TokenRepository defines verification-token storage operations.
type TokenRepository interface {
	Create(ctx context.Context, t *VerificationToken) error
	// GetByToken returns the token together with its owning user.
	GetByToken(ctx context.Context, token string) (*VerificationToken, *User, error)
	Delete(ctx context.Context, id int64) error
	// DeleteExpired removes every token past its expiry and reports how
	// many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
