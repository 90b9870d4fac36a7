package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// Create inserts a user. Returns domain.ErrConflict when the email or
	// user name is already taken (case-insensitive).
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByID returns domain.ErrNotFound for unknown IDs.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// GetByEmail looks a user up case-insensitively.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Search returns users whose user name or display name starts with
	// prefix, ordered by user name, plus the total match count.
	Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, email, user_name, display_name, password_hash, created_at, updated_at`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (email, user_name, display_name, password_hash)
		VALUES (@email, @user_name, @display_name, @password_hash)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"email":         u.Email,
		"user_name":     u.UserName,
		"display_name":  u.DisplayName,
		"password_hash": u.PasswordHash,
	})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = @id`
	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(@email)`
	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error) {
	const where = `
		WHERE lower(user_name) LIKE lower(@prefix) || '%'
		   OR lower(display_name) LIKE lower(@prefix) || '%'`

	args := pgx.NamedArgs{"prefix": prefix, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.Search: count: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`+where+`
		ORDER BY user_name
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.Search: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.UserRepo.Search: %w", err)
	}
	return users, total, nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)
	if err := s.Scan(&id, &u.Email, &u.UserName, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
