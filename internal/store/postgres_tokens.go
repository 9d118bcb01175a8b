package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shurlix/shurlix/internal/users"
)

// PostgresTokenStore is a PostgreSQL implementation of users.TokenRepository.
type PostgresTokenStore struct {
	pool *pgxpool.Pool
}

func NewPostgresTokenStore(pool *pgxpool.Pool) *PostgresTokenStore {
	return &PostgresTokenStore{pool: pool}
}

func (s *PostgresTokenStore) Create(ctx context.Context, t *users.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return s.pool.QueryRow(ctx, query, t.UserID, t.Token, t.ExpiresAt).Scan(&t.ID, &t.CreatedAt)
}

func (s *PostgresTokenStore) GetByToken(ctx context.Context, token string) (*users.VerificationToken, *users.User, error) {
	query := `
		SELECT t.id, t.user_id, t.token, t.created_at, t.expires_at,
		       u.id, u.username, u.email, u.password_hash, u.is_admin, u.verified_at, u.created_at
		FROM verification_tokens t
		INNER JOIN users u ON u.id = t.user_id
		WHERE t.token = $1
	`

	var (
		t users.VerificationToken
		u users.User
	)

	err := s.pool.QueryRow(ctx, query, token).Scan(
		&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt,
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.VerifiedAt, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, users.ErrTokenNotFound
		}

		return nil, nil, err
	}

	return &t, &u, nil
}

func (s *PostgresTokenStore) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE id = $1`, id)

	return err
}

func (s *PostgresTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
