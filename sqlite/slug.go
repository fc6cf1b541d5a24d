package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/rankmdx"
)

// Compile-time interface verification.
var _ rankmdx.SlugRegistry = (*SlugRegistry)(nil)

// SlugRegistry implements rankmdx.SlugRegistry using SQLite.
type SlugRegistry struct {
	db *DB
}

// NewSlugRegistry creates a new SlugRegistry.
func NewSlugRegistry(db *DB) *SlugRegistry {
	return &SlugRegistry{db: db}
}

// ClaimSlug claims slug for sourceURL. A URL that already holds a slug keeps
// it, so reprocessing a source never allocates a second slug.
func (r *SlugRegistry) ClaimSlug(ctx context.Context, slug, sourceURL string) (string, error) {
	if !rankmdx.IsValidSlug(slug) {
		return "", rankmdx.Errorf(rankmdx.EINVALID, "invalid slug %q", slug)
	}
	if sourceURL == "" {
		return "", rankmdx.Errorf(rankmdx.EINVALID, "source url required")
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT slug FROM slugs WHERE source_url = ?", sourceURL).Scan(&existing)
	if err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	var holder string
	err = tx.QueryRowContext(ctx, "SELECT source_url FROM slugs WHERE slug = ?", slug).Scan(&holder)
	if err == nil {
		return "", rankmdx.Errorf(rankmdx.ECONFLICT, "slug %q is held by %s", slug, holder)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO slugs (slug, source_url, created_at)
		VALUES (?, ?, ?)
	`, slug, sourceURL, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return slug, nil
}

// FindSlug returns the slug held by sourceURL.
func (r *SlugRegistry) FindSlug(ctx context.Context, sourceURL string) (string, error) {
	var slug string
	err := r.db.QueryRowContext(ctx, "SELECT slug FROM slugs WHERE source_url = ?", sourceURL).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return "", rankmdx.Errorf(rankmdx.ENOTFOUND, "no slug for %s", sourceURL)
	}
	if err != nil {
		return "", err
	}
	return slug, nil
}
