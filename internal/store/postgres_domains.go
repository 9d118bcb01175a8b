package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shurlix/shurlix/internal/domains"
)

// PostgresDomainStore is a PostgreSQL implementation of domains.Repository.
type PostgresDomainStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDomainStore(pool *pgxpool.Pool) *PostgresDomainStore {
	return &PostgresDomainStore{pool: pool}
}

const domainColumns = `id, domain, public, created_at, updated_at`

func (s *PostgresDomainStore) Create(ctx context.Context, d *domains.Domain) error {
	query := `
		INSERT INTO domains (domain, public)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query, d.Domain, d.Public).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domains.ErrConflict
		}

		return err
	}

	return nil
}

func (s *PostgresDomainStore) GetByID(ctx context.Context, id int64) (*domains.Domain, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+domainColumns+` FROM domains WHERE id = $1`, id)

	return s.scanDomain(row)
}

func (s *PostgresDomainStore) GetByHost(ctx context.Context, host string) (*domains.Domain, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+domainColumns+` FROM domains WHERE domain = $1`, host)

	return s.scanDomain(row)
}

func (s *PostgresDomainStore) ListPublic(ctx context.Context) ([]domains.Domain, error) {
	return s.list(ctx, `SELECT `+domainColumns+` FROM domains WHERE public ORDER BY created_at DESC`)
}

func (s *PostgresDomainStore) ListAll(ctx context.Context) ([]domains.Domain, error) {
	return s.list(ctx, `SELECT `+domainColumns+` FROM domains ORDER BY created_at DESC`)
}

func (s *PostgresDomainStore) ListPage(ctx context.Context, page, perPage int64) ([]domains.Domain, error) {
	query := `
		SELECT ` + domainColumns + `
		FROM domains
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return s.list(ctx, query, perPage, (page-1)*perPage)
}

func (s *PostgresDomainStore) Count(ctx context.Context) (int64, error) {
	var count int64

	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM domains`).Scan(&count)

	return count, err
}

func (s *PostgresDomainStore) Update(ctx context.Context, id int64, update domains.Update) error {
	query := `
		UPDATE domains
		SET domain = COALESCE($2, domain),
		    public = COALESCE($3, public),
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id, update.Domain, update.Public)
	if err != nil {
		if isUniqueViolation(err) {
			return domains.ErrConflict
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domains.ErrNotFound
	}

	return nil
}

func (s *PostgresDomainStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domains.ErrNotFound
	}

	return nil
}

func (s *PostgresDomainStore) list(ctx context.Context, query string, args ...any) ([]domains.Domain, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domains.Domain{}

	for rows.Next() {
		var d domains.Domain
		if err := rows.Scan(&d.ID, &d.Domain, &d.Public, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}

		items = append(items, d)
	}

	return items, rows.Err()
}

func (s *PostgresDomainStore) scanDomain(row pgx.Row) (*domains.Domain, error) {
	var d domains.Domain

	err := row.Scan(&d.ID, &d.Domain, &d.Public, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domains.ErrNotFound
		}

		return nil, err
	}

	return &d, nil
}
