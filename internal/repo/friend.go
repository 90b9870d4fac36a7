package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// FriendRepo defines the persistence operations for friend requests and the
// symmetric friendships table. An accepted friendship is stored as two rows,
// (a, b) and (b, a), so lookups never need an OR.
type FriendRepo interface {
	// CreateRequest inserts a pending request from -> to.
	CreateRequest(ctx context.Context, from, to uuid.UUID) (domain.FriendRequest, error)

	// GetRequest returns a request by ID or domain.ErrNotFound.
	GetRequest(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error)

	// Resolve moves a pending request to declined or cancelled.
	// Returns domain.ErrConflict if the request is no longer pending.
	Resolve(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) (domain.FriendRequest, error)

	// Accept marks a pending request accepted and inserts both friendship
	// rows in one statement. Returns domain.ErrConflict if the request is no
	// longer pending.
	Accept(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error)

	// HasPending reports whether a pending request exists between a and b in
	// either direction.
	HasPending(ctx context.Context, a, b uuid.UUID) (bool, error)

	// AreFriends reports whether a and b are friends.
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)

	// FriendsWithAny reports whether viewer is a friend of any of users.
	FriendsWithAny(ctx context.Context, viewer uuid.UUID, users []uuid.UUID) (bool, error)

	// ListPending returns pending requests addressed to userID (incoming) or
	// sent by userID (outgoing), newest first.
	ListPending(ctx context.Context, userID uuid.UUID, incoming bool) ([]domain.FriendRequest, error)

	// ListFriends returns the friends of userID ordered by user name.
	ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.User, error)

	// Unfriend removes both friendship rows. Returns domain.ErrNotFound if
	// the two users were not friends.
	Unfriend(ctx context.Context, a, b uuid.UUID) error
}

type pgFriendRepo struct {
	db db
}

// NewFriendRepo constructs a FriendRepo backed by the provided db connection.
func NewFriendRepo(db db) FriendRepo {
	return &pgFriendRepo{db: db}
}

const friendRequestColumns = `id, from_user_id, to_user_id, status, created_at, resolved_at`

func (r *pgFriendRepo) CreateRequest(ctx context.Context, from, to uuid.UUID) (domain.FriendRequest, error) {
	const q = `
		INSERT INTO friend_requests (from_user_id, to_user_id)
		VALUES (@from, @to)
		RETURNING ` + friendRequestColumns

	result, err := scanFriendRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"from": from, "to": to}))
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("repo.FriendRepo.CreateRequest: %w", translate(err))
	}
	return result, nil
}

func (r *pgFriendRepo) GetRequest(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error) {
	q := `SELECT ` + friendRequestColumns + ` FROM friend_requests WHERE id = @id`

	result, err := scanFriendRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("repo.FriendRepo.GetRequest: %w", translate(err))
	}
	return result, nil
}

func (r *pgFriendRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) (domain.FriendRequest, error) {
	const q = `
		UPDATE friend_requests
		SET status = @status, resolved_at = now()
		WHERE id = @id AND status = 'pending'
		RETURNING ` + friendRequestColumns

	result, err := scanFriendRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("repo.FriendRepo.Resolve: %w", pendingOnly(err))
	}
	return result, nil
}

func (r *pgFriendRepo) Accept(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error) {
	const q = `
		WITH accepted AS (
			UPDATE friend_requests
			SET status = 'accepted', resolved_at = now()
			WHERE id = @id AND status = 'pending'
			RETURNING ` + friendRequestColumns + `
		), linked AS (
			INSERT INTO friendships (user_id, friend_id)
			SELECT from_user_id, to_user_id FROM accepted
			UNION ALL
			SELECT to_user_id, from_user_id FROM accepted
			ON CONFLICT DO NOTHING
		)
		SELECT ` + friendRequestColumns + ` FROM accepted`

	result, err := scanFriendRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.FriendRequest{}, fmt.Errorf("repo.FriendRepo.Accept: %w", pendingOnly(err))
	}
	return result, nil
}

func (r *pgFriendRepo) HasPending(ctx context.Context, a, b uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((from_user_id = @a AND to_user_id = @b) OR (from_user_id = @b AND to_user_id = @a))
		)`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"a": a, "b": b}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.FriendRepo.HasPending: %w", err)
	}
	return ok, nil
}

func (r *pgFriendRepo) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = @a AND friend_id = @b)`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"a": a, "b": b}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.FriendRepo.AreFriends: %w", err)
	}
	return ok, nil
}

func (r *pgFriendRepo) FriendsWithAny(ctx context.Context, viewer uuid.UUID, users []uuid.UUID) (bool, error) {
	if len(users) == 0 {
		return false, nil
	}
	const q = `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = @viewer AND friend_id = ANY(@users))`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"viewer": viewer, "users": users}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.FriendRepo.FriendsWithAny: %w", err)
	}
	return ok, nil
}

func (r *pgFriendRepo) ListPending(ctx context.Context, userID uuid.UUID, incoming bool) ([]domain.FriendRequest, error) {
	column := "from_user_id"
	if incoming {
		column = "to_user_id"
	}
	q := `SELECT ` + friendRequestColumns + `
		FROM friend_requests
		WHERE ` + column + ` = @user_id AND status = 'pending'
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.FriendRepo.ListPending: %w", err)
	}
	out, err := collect(rows, scanFriendRequest)
	if err != nil {
		return nil, fmt.Errorf("repo.FriendRepo.ListPending: %w", err)
	}
	return out, nil
}

func (r *pgFriendRepo) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.User, error) {
	q := `SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT friend_id FROM friendships WHERE user_id = @user_id)
		ORDER BY user_name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.FriendRepo.ListFriends: %w", err)
	}
	out, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("repo.FriendRepo.ListFriends: %w", err)
	}
	return out, nil
}

func (r *pgFriendRepo) Unfriend(ctx context.Context, a, b uuid.UUID) error {
	const q = `
		DELETE FROM friendships
		WHERE (user_id = @a AND friend_id = @b) OR (user_id = @b AND friend_id = @a)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"a": a, "b": b})
	if err != nil {
		return fmt.Errorf("repo.FriendRepo.Unfriend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FriendRepo.Unfriend: %w", domain.ErrNotFound)
	}
	return nil
}

// pendingOnly reports a missed conditional update as a state conflict.
func pendingOnly(err error) error {
	if err = translate(err); errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: request is no longer pending", domain.ErrConflict)
	}
	return err
}

func scanFriendRequest(s scanner) (domain.FriendRequest, error) {
	var (
		fr           domain.FriendRequest
		id, from, to pgtype.UUID
		status       string
	)
	if err := s.Scan(&id, &from, &to, &status, &fr.CreatedAt, &fr.ResolvedAt); err != nil {
		return domain.FriendRequest{}, err
	}
	fr.ID = uuid.UUID(id.Bytes)
	fr.FromUserID = uuid.UUID(from.Bytes)
	fr.ToUserID = uuid.UUID(to.Bytes)
	fr.Status = domain.FriendRequestStatus(status)
	return fr, nil
}
