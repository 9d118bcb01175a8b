package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Uniqueness is enforced here, not in the
// services: concurrent check-then-insert races resolve at these constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT        NOT NULL,
	email         TEXT        NOT NULL,
	password_hash TEXT        NOT NULL,
	is_admin      BOOLEAN     NOT NULL DEFAULT FALSE,
	verified_at   TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_key ON users (LOWER(username));
CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_key ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS domains (
	id         BIGSERIAL PRIMARY KEY,
	domain     TEXT        NOT NULL UNIQUE,
	public     BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS links (
	id            BIGSERIAL PRIMARY KEY,
	domain_id     BIGINT      NOT NULL REFERENCES domains (id) ON DELETE CASCADE,
	slug          TEXT        NOT NULL UNIQUE,
	custom_slug   TEXT UNIQUE,
	original_link TEXT        NOT NULL,
	owner_id      BIGINT      REFERENCES users (id) ON DELETE SET NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS verification_tokens (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	token      TEXT        NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
