package users

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/shurlix/shurlix/internal/auth"
	"github.com/shurlix/shurlix/internal/mailer"
	"github.com/shurlix/shurlix/internal/messaging"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike, so login failures are not enumerable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAllowed         = errors.New("you are not allowed to perform this action")
	ErrFieldMismatch      = errors.New("confirmation fields don't match")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password is not strong enough")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")
)

// verificationTokenLength matches the stored token column; tokens are
// random alphanumeric strings.
const verificationTokenLength = 32

// TokenGenerator produces random verification tokens.
type TokenGenerator func() string

// ServiceConfig carries the config slice the user service needs.
type ServiceConfig struct {
	MinPasswordStrength     int
	AllowRegistering        bool
	EnableEmailVerification bool
	VerificationTTL         time.Duration
}

// Service implements registration, authentication and profile management.
type Service struct {
	store    Repository
	tokens   TokenRepository
	cfg      ServiceConfig
	publish  messaging.Publish[mailer.VerificationRequested]
	newToken TokenGenerator
	logger   *zap.Logger
}

func NewService(
	store Repository,
	tokens TokenRepository,
	cfg ServiceConfig,
	publish messaging.Publish[mailer.VerificationRequested],
	newToken TokenGenerator,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		cfg:      cfg,
		publish:  publish,
		newToken: newToken,
		logger:   logger,
	}
}

// RegisterParams are the inputs for account creation. The confirmation
// copies must match their primary fields.
type RegisterParams struct {
	Username        string
	Email           string
	ConfirmEmail    string
	Password        string
	ConfirmPassword string
}

// Register creates a new account and, when verification is enabled, issues a
// verification token and dispatches the mail asynchronously.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if !s.cfg.AllowRegistering {
		return nil, ErrNotAllowed
	}

	if params.Email != params.ConfirmEmail || params.Password != params.ConfirmPassword {
		return nil, ErrFieldMismatch
	}

	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	if auth.PasswordScore(params.Password) < s.cfg.MinPasswordStrength {
		return nil, ErrWeakPassword
	}

	if taken, err := s.store.EmailExists(ctx, params.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := s.store.UsernameExists(ctx, params.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.cfg.EnableEmailVerification {
		s.issueVerification(ctx, user.ID, user.Username, user.Email)
	}

	return user, nil
}

// Authenticate verifies email + password and returns the user. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile changes username and/or email. An email change re-validates
// format and uniqueness and triggers a fresh verification mail when
// verification is enabled.
func (s *Service) UpdateProfile(ctx context.Context, user *User, update ProfileUpdate) error {
	if update.Email != nil {
		if taken, err := s.store.EmailExists(ctx, *update.Email); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}

		if _, err := mail.ParseAddress(*update.Email); err != nil {
			return ErrInvalidEmail
		}
	}

	if update.Username != nil {
		if taken, err := s.store.UsernameExists(ctx, *update.Username); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}
	}

	if err := s.store.Update(ctx, user.ID, update); err != nil {
		return err
	}

	if update.Email != nil && s.cfg.EnableEmailVerification {
		username := user.Username
		if update.Username != nil {
			username = *update.Username
		}

		s.issueVerification(ctx, user.ID, username, *update.Email)
	}

	return nil
}

// ChangePassword re-verifies the current password, checks the new one
// against its confirmation and the strength threshold, then re-hashes.
func (s *Service) ChangePassword(ctx context.Context, user *User, current, next, confirm string) error {
	if !auth.VerifyPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	if next != confirm {
		return ErrFieldMismatch
	}

	if auth.PasswordScore(next) < s.cfg.MinPasswordStrength {
		return ErrWeakPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}

	return s.store.UpdatePasswordHash(ctx, user.ID, hash)
}

// Verify consumes a verification token and marks the user verified. Expired
// or unknown tokens both yield ErrTokenNotFound.
func (s *Service) Verify(ctx context.Context, token string) error {
	record, user, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	if record.Expired(time.Now()) {
		return ErrTokenNotFound
	}

	if err := s.tokens.Delete(ctx, record.ID); err != nil {
		return err
	}

	return s.store.SetVerifiedAt(ctx, user.ID, time.Now())
}

// Delete removes the account. Deletion is physical.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, userID)
}

// CheckStrength scores a candidate password from 0 to 4.
func (s *Service) CheckStrength(password string) int {
	return auth.PasswordScore(password)
}

// SweepExpiredTokens bulk-deletes verification tokens past their expiry.
// Scheduled daily; errors are the caller's to log, nothing retries.
func (s *Service) SweepExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, time.Now())
}

func (s *Service) issueVerification(ctx context.Context, userID int64, username, email string) {
	token := &VerificationToken{
		UserID:    userID,
		Token:     s.newToken(),
		ExpiresAt: time.Now().Add(s.cfg.VerificationTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.logger.Error("failed to create verification token", zap.Int64("user_id", userID), zap.Error(err))

		return
	}

	if s.publish == nil {
		return
	}

	// Fire-and-forget: the response never waits on mail delivery.
	if err := s.publish(&mailer.VerificationRequested{
		To:       email,
		Username: username,
		Token:    token.Token,
	}); err != nil {
		s.logger.Error("failed to publish verification mail", zap.Int64("user_id", userID), zap.Error(err))
	}
}
