package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// CommentRepo defines the persistence operations for post comments.
type CommentRepo interface {
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)
	GetByID(ctx context.Context, postID, commentID uuid.UUID) (domain.Comment, error)

	// ListByPost returns the comments of a post, oldest first.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	Delete(ctx context.Context, postID, commentID uuid.UUID) error
}

type pgCommentRepo struct {
	db db
}

// NewCommentRepo constructs a CommentRepo backed by the provided db connection.
func NewCommentRepo(db db) CommentRepo {
	return &pgCommentRepo{db: db}
}

const commentColumns = `id, post_id, author_id, content, created_at`

func (r *pgCommentRepo) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	const q = `
		INSERT INTO comments (post_id, author_id, content)
		VALUES (@post_id, @author_id, @content)
		RETURNING ` + commentColumns

	result, err := scanComment(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"post_id":   c.PostID,
		"author_id": c.AuthorID,
		"content":   c.Content,
	}))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgCommentRepo) GetByID(ctx context.Context, postID, commentID uuid.UUID) (domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE id = @id AND post_id = @post_id`

	result, err := scanComment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": commentID, "post_id": postID}))
	if err != nil {
		return domain.Comment{}, fmt.Errorf("repo.CommentRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = @post_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"post_id": postID})
	if err != nil {
		return nil, fmt.Errorf("repo.CommentRepo.ListByPost: %w", err)
	}
	out, err := collect(rows, scanComment)
	if err != nil {
		return nil, fmt.Errorf("repo.CommentRepo.ListByPost: %w", err)
	}
	return out, nil
}

func (r *pgCommentRepo) Delete(ctx context.Context, postID, commentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = @id AND post_id = @post_id`,
		pgx.NamedArgs{"id": commentID, "post_id": postID})
	if err != nil {
		return fmt.Errorf("repo.CommentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CommentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanComment(s scanner) (domain.Comment, error) {
	var (
		c                domain.Comment
		id, post, author pgtype.UUID
	)
	if err := s.Scan(&id, &post, &author, &c.Content, &c.CreatedAt); err != nil {
		return domain.Comment{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.PostID = uuid.UUID(post.Bytes)
	c.AuthorID = uuid.UUID(author.Bytes)
	return c, nil
}

// PhotoRepo defines the persistence operations for post photos.
type PhotoRepo interface {
	Create(ctx context.Context, p domain.Photo) (domain.Photo, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Photo, error)

	// Delete removes the photo row and returns it so the caller can drop the
	// stored object.
	Delete(ctx context.Context, postID, photoID uuid.UUID) (domain.Photo, error)
}

type pgPhotoRepo struct {
	db db
}

// NewPhotoRepo constructs a PhotoRepo backed by the provided db connection.
func NewPhotoRepo(db db) PhotoRepo {
	return &pgPhotoRepo{db: db}
}

const photoColumns = `id, post_id, storage_key, url, content_type, caption, created_at`

func (r *pgPhotoRepo) Create(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	const q = `
		INSERT INTO photos (id, post_id, storage_key, url, content_type, caption)
		VALUES (@id, @post_id, @storage_key, @url, @content_type, @caption)
		RETURNING ` + photoColumns

	result, err := scanPhoto(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":           p.ID,
		"post_id":      p.PostID,
		"storage_key":  p.StorageKey,
		"url":          p.URL,
		"content_type": p.ContentType,
		"caption":      p.Caption,
	}))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("repo.PhotoRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgPhotoRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Photo, error) {
	q := `SELECT ` + photoColumns + ` FROM photos WHERE post_id = @post_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"post_id": postID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPost: %w", err)
	}
	out, err := collect(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("repo.PhotoRepo.ListByPost: %w", err)
	}
	return out, nil
}

func (r *pgPhotoRepo) Delete(ctx context.Context, postID, photoID uuid.UUID) (domain.Photo, error) {
	q := `DELETE FROM photos WHERE id = @id AND post_id = @post_id RETURNING ` + photoColumns

	result, err := scanPhoto(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": photoID, "post_id": postID}))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("repo.PhotoRepo.Delete: %w", translate(err))
	}
	return result, nil
}

func scanPhoto(s scanner) (domain.Photo, error) {
	var (
		p        domain.Photo
		id, post pgtype.UUID
	)
	if err := s.Scan(&id, &post, &p.StorageKey, &p.URL, &p.ContentType, &p.Caption, &p.CreatedAt); err != nil {
		return domain.Photo{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.PostID = uuid.UUID(post.Bytes)
	return p, nil
}
