package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// TagRepo defines the persistence operations for Tags and the post_tags join table.
type TagRepo interface {
	// Upsert inserts a tag by slug, or returns the existing tag if the slug
	// already exists. The name of the first creator is preserved on conflict.
	Upsert(ctx context.Context, name, slug string) (domain.Tag, error)

	// ListPaged returns one page of tags matching the slug prefix and the total count.
	// If prefix is empty, all tags are included in the result set.
	ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)

	// AddToPost links a tag to a post. Idempotent.
	AddToPost(ctx context.Context, postID, tagID uuid.UUID) error

	// RemoveFromPost unlinks a tag from a post by slug.
	// Returns domain.ErrNotFound if the tag is not linked to the post.
	RemoveFromPost(ctx context.Context, postID uuid.UUID, slug string) error

	// ListByPost returns all tags linked to a post, ordered by slug.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Tag, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Upsert inserts a tag or returns the existing row on slug conflict.
// DO UPDATE SET is needed for RETURNING to produce the existing row;
// DO NOTHING would return no rows.
func (r *pgTagRepo) Upsert(ctx context.Context, name, slug string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name, slug)
		VALUES (@name, @slug)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "slug": slug})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Upsert: %w", translate(err))
	}
	return result, nil
}

// ListPaged returns one page of tags matching prefix ordered by slug.
func (r *pgTagRepo) ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	args := pgx.NamedArgs{"prefix": prefix, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tags WHERE slug LIKE @prefix || '%'`, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TagRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, created_at
		FROM tags
		WHERE slug LIKE @prefix || '%'
		ORDER BY slug
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TagRepo.ListPaged: %w", err)
	}
	tags, err := collect(rows, scanTag)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TagRepo.ListPaged: %w", err)
	}
	return tags, total, nil
}

// AddToPost links a tag to a post. Idempotent via ON CONFLICT DO NOTHING.
func (r *pgTagRepo) AddToPost(ctx context.Context, postID, tagID uuid.UUID) error {
	const q = `
		INSERT INTO post_tags (post_id, tag_id)
		VALUES (@post_id, @tag_id)
		ON CONFLICT (post_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"post_id": postID, "tag_id": tagID})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.AddToPost: %w", translate(err))
	}
	return nil
}

// RemoveFromPost unlinks a tag from a post using a slug-based subquery lookup.
func (r *pgTagRepo) RemoveFromPost(ctx context.Context, postID uuid.UUID, slug string) error {
	const q = `
		DELETE FROM post_tags
		WHERE post_id = @post_id
		  AND tag_id = (SELECT id FROM tags WHERE slug = @slug)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"post_id": postID, "slug": slug})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.RemoveFromPost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.RemoveFromPost: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTagRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = @post_id
		ORDER BY t.slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"post_id": postID})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByPost: %w", err)
	}
	tags, err := collect(rows, scanTag)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByPost: %w", err)
	}
	return tags, nil
}

func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	if err := s.Scan(&id, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
