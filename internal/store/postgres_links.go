package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shurlix/shurlix/internal/links"
)

// PostgresLinkStore is a PostgreSQL implementation of links.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (s *PostgresLinkStore) Create(ctx context.Context, link *links.Link) error {
	query := `
		INSERT INTO links (domain_id, slug, custom_slug, original_link, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		link.DomainID,
		link.Slug,
		link.CustomSlug,
		link.OriginalLink,
		link.OwnerID,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return links.ErrConflict
		}

		return err
	}

	return nil
}

func (s *PostgresLinkStore) GetBySlug(ctx context.Context, slug string) (*links.Link, error) {
	query := `
		SELECT id, domain_id, slug, custom_slug, original_link, owner_id, created_at, updated_at
		FROM links
		WHERE slug = $1 OR custom_slug = $1
		LIMIT 1
	`

	return s.scanLink(s.pool.QueryRow(ctx, query, slug))
}

func (s *PostgresLinkStore) GetByDomainSlug(ctx context.Context, domainID int64, slug string) (*links.Link, error) {
	query := `
		SELECT id, domain_id, slug, custom_slug, original_link, owner_id, created_at, updated_at
		FROM links
		WHERE domain_id = $1 AND (slug = $2 OR custom_slug = $2)
		LIMIT 1
	`

	return s.scanLink(s.pool.QueryRow(ctx, query, domainID, slug))
}

func (s *PostgresLinkStore) ListByOwner(ctx context.Context, ownerID, page, perPage int64) ([]links.LinkWithDomain, error) {
	query := `
		SELECT l.id, l.domain_id, d.domain, l.slug, l.custom_slug, l.original_link,
		       l.owner_id, l.created_at, l.updated_at
		FROM links l
		INNER JOIN domains d ON d.id = l.domain_id
		WHERE l.owner_id = $1
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []links.LinkWithDomain{}

	for rows.Next() {
		var item links.LinkWithDomain

		err := rows.Scan(
			&item.ID,
			&item.DomainID,
			&item.Domain,
			&item.Slug,
			&item.CustomSlug,
			&item.OriginalLink,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *PostgresLinkStore) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64

	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE owner_id = $1`, ownerID).Scan(&count)

	return count, err
}

func (s *PostgresLinkStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return links.ErrNotFound
	}

	return nil
}

func (s *PostgresLinkStore) scanLink(row pgx.Row) (*links.Link, error) {
	var link links.Link

	err := row.Scan(
		&link.ID,
		&link.DomainID,
		&link.Slug,
		&link.CustomSlug,
		&link.OriginalLink,
		&link.OwnerID,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, links.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}
