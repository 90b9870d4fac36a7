package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// NotificationRepo defines the persistence operations for user notifications.
type NotificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// List returns one page of a user's notifications, newest first, plus the
	// total count. unreadOnly restricts the result to unread rows.
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error)

	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkRead flags one notification as read. The user filter makes a
	// foreign notification indistinguishable from a missing one.
	MarkRead(ctx context.Context, userID, id uuid.UUID) (domain.Notification, error)

	// MarkAllRead flags every unread notification of the user and returns how
	// many changed.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `id, user_id, kind, message, entity_type, entity_id, is_read, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (user_id, kind, message, entity_type, entity_id)
		VALUES (@user_id, @kind, @message, @entity_type, @entity_id)
		RETURNING ` + notificationColumns

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":     n.UserID,
		"kind":        string(n.Kind),
		"message":     n.Message,
		"entity_type": n.EntityType,
		"entity_id":   n.EntityID,
	}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgNotificationRepo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	const where = ` WHERE user_id = @user_id AND (NOT @unread_only OR NOT is_read)`
	args := pgx.NamedArgs{"user_id": userID, "unread_only": unreadOnly, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.List: count: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications`+where+`
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.List: %w", err)
	}
	out, err := collect(rows, scanNotification)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.List: %w", err)
	}
	return out, total, nil
}

func (r *pgNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE user_id = @user_id AND NOT is_read`,
		pgx.NamedArgs{"user_id": userID}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.UnreadCount: %w", err)
	}
	return n, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (domain.Notification, error) {
	q := `UPDATE notifications SET is_read = true
		WHERE id = @id AND user_id = @user_id
		RETURNING ` + notificationColumns

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.MarkRead: %w", translate(err))
	}
	return result, nil
}

func (r *pgNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = @user_id AND NOT is_read`,
		pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.MarkAllRead: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n             domain.Notification
		id, user, ent pgtype.UUID
		kind          string
	)
	if err := s.Scan(&id, &user, &kind, &n.Message, &n.EntityType, &ent, &n.IsRead, &n.CreatedAt); err != nil {
		return domain.Notification{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.UserID = uuid.UUID(user.Bytes)
	n.Kind = domain.NotificationKind(kind)
	n.EntityID = uuidPtr(ent)
	return n, nil
}
