package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shurlix/shurlix/internal/users"
)

// PostgresUserStore is a PostgreSQL implementation of users.Repository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id, username, email, password_hash, is_admin, verified_at, created_at`

func (s *PostgresUserStore) Create(ctx context.Context, u *users.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.IsAdmin).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrConflict
		}

		return err
	}

	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*users.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	return s.scanUser(row)
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	return s.scanUser(row)
}

func (s *PostgresUserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username,
	).Scan(&exists)

	return exists, err
}

func (s *PostgresUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)

	return exists, err
}

func (s *PostgresUserStore) Update(ctx context.Context, id int64, update users.ProfileUpdate) error {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email)
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id, update.Username, update.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrConflict
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}

	return nil
}

func (s *PostgresUserStore) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}

	return nil
}

func (s *PostgresUserStore) SetVerifiedAt(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET verified_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}

	return nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}

	return nil
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (*users.User, error) {
	var u users.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.VerifiedAt,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}

		return nil, err
	}

	return &u, nil
}
