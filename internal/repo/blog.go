package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// BlogRepo defines the persistence operations for trip blogs.
// Every trip has exactly one blog, created together with the trip.
type BlogRepo interface {
	Create(ctx context.Context, b domain.Blog) (domain.Blog, error)

	// GetByTrip returns the blog of a trip or domain.ErrNotFound.
	GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.Blog, error)

	// Update overwrites title, description and visibility.
	Update(ctx context.Context, b domain.Blog) (domain.Blog, error)
}

type pgBlogRepo struct {
	db db
}

// NewBlogRepo constructs a BlogRepo backed by the provided db connection.
func NewBlogRepo(db db) BlogRepo {
	return &pgBlogRepo{db: db}
}

const blogColumns = `id, trip_id, title, description, visibility, created_at, updated_at`

func (r *pgBlogRepo) Create(ctx context.Context, b domain.Blog) (domain.Blog, error) {
	const q = `
		INSERT INTO blogs (trip_id, title, description, visibility)
		VALUES (@trip_id, @title, @description, @visibility)
		RETURNING ` + blogColumns

	result, err := scanBlog(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":     b.TripID,
		"title":       b.Title,
		"description": b.Description,
		"visibility":  string(b.Visibility),
	}))
	if err != nil {
		return domain.Blog{}, fmt.Errorf("repo.BlogRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgBlogRepo) GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.Blog, error) {
	q := `SELECT ` + blogColumns + ` FROM blogs WHERE trip_id = @trip_id`

	result, err := scanBlog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}))
	if err != nil {
		return domain.Blog{}, fmt.Errorf("repo.BlogRepo.GetByTrip: %w", translate(err))
	}
	return result, nil
}

func (r *pgBlogRepo) Update(ctx context.Context, b domain.Blog) (domain.Blog, error) {
	const q = `
		UPDATE blogs
		SET title = @title, description = @description, visibility = @visibility, updated_at = now()
		WHERE id = @id
		RETURNING ` + blogColumns

	result, err := scanBlog(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":          b.ID,
		"title":       b.Title,
		"description": b.Description,
		"visibility":  string(b.Visibility),
	}))
	if err != nil {
		return domain.Blog{}, fmt.Errorf("repo.BlogRepo.Update: %w", translate(err))
	}
	return result, nil
}

func scanBlog(s scanner) (domain.Blog, error) {
	var (
		b          domain.Blog
		id, trip   pgtype.UUID
		visibility string
	)
	if err := s.Scan(&id, &trip, &b.Title, &b.Description, &visibility, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return domain.Blog{}, err
	}
	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(trip.Bytes)
	b.Visibility = domain.Visibility(visibility)
	return b, nil
}

// PostRepo defines the persistence operations for blog posts.
type PostRepo interface {
	Create(ctx context.Context, p domain.Post) (domain.Post, error)

	// GetByID returns a post of the given blog or domain.ErrNotFound.
	GetByID(ctx context.Context, blogID, postID uuid.UUID) (domain.Post, error)

	// ListByBlog returns one page of posts, newest first, plus the total count.
	ListByBlog(ctx context.Context, blogID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error)

	Update(ctx context.Context, p domain.Post) (domain.Post, error)
	Delete(ctx context.Context, blogID, postID uuid.UUID) error
}

type pgPostRepo struct {
	db db
}

// NewPostRepo constructs a PostRepo backed by the provided db connection.
func NewPostRepo(db db) PostRepo {
	return &pgPostRepo{db: db}
}

const postColumns = `id, blog_id, author_id, day_id, title, content, created_at, updated_at`

func (r *pgPostRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	const q = `
		INSERT INTO posts (blog_id, author_id, day_id, title, content)
		VALUES (@blog_id, @author_id, @day_id, @title, @content)
		RETURNING ` + postColumns

	result, err := scanPost(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"blog_id":   p.BlogID,
		"author_id": p.AuthorID,
		"day_id":    p.DayID,
		"title":     p.Title,
		"content":   p.Content,
	}))
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgPostRepo) GetByID(ctx context.Context, blogID, postID uuid.UUID) (domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = @id AND blog_id = @blog_id`

	result, err := scanPost(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": postID, "blog_id": blogID}))
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgPostRepo) ListByBlog(ctx context.Context, blogID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error) {
	args := pgx.NamedArgs{"blog_id": blogID, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE blog_id = @blog_id`, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListByBlog: count: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+postColumns+`
		FROM posts
		WHERE blog_id = @blog_id
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListByBlog: %w", err)
	}
	posts, err := collect(rows, scanPost)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.ListByBlog: %w", err)
	}
	return posts, total, nil
}

func (r *pgPostRepo) Update(ctx context.Context, p domain.Post) (domain.Post, error) {
	const q = `
		UPDATE posts
		SET day_id = @day_id, title = @title, content = @content, updated_at = now()
		WHERE id = @id AND blog_id = @blog_id
		RETURNING ` + postColumns

	result, err := scanPost(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":      p.ID,
		"blog_id": p.BlogID,
		"day_id":  p.DayID,
		"title":   p.Title,
		"content": p.Content,
	}))
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgPostRepo) Delete(ctx context.Context, blogID, postID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = @id AND blog_id = @blog_id`,
		pgx.NamedArgs{"id": postID, "blog_id": blogID})
	if err != nil {
		return fmt.Errorf("repo.PostRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PostRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPost(s scanner) (domain.Post, error) {
	var (
		p                domain.Post
		id, blog, author pgtype.UUID
		day              pgtype.UUID
	)
	if err := s.Scan(&id, &blog, &author, &day, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Post{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.BlogID = uuid.UUID(blog.Bytes)
	p.AuthorID = uuid.UUID(author.Bytes)
	p.DayID = uuidPtr(day)
	return p, nil
}
