package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/metrics"
	"github.com/travelhub/backend/internal/repo"
)

// Publisher forwards a stored notification to an event stream. Satisfied by
// *events.KafkaPublisher and events.Nop.
type Publisher interface {
	PublishNotification(ctx context.Context, n domain.Notification) error
}

// NotificationService stores notifications and lets their recipients read
// them. It implements Notifier for the other services.
type NotificationService struct {
	notifications repo.NotificationRepo
	publisher     Publisher
	log           *slog.Logger
}

var _ Notifier = (*NotificationService)(nil)

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repo.NotificationRepo, publisher Publisher, log *slog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, publisher: publisher, log: log}
}

// Notify persists n and then publishes it. Failures are logged at warn and
// never reach the caller.
func (s *NotificationService) Notify(ctx context.Context, n domain.Notification) {
	stored, err := s.notifications.Create(ctx, n)
	if err != nil {
		s.log.WarnContext(ctx, "store notification",
			slog.String("user_id", n.UserID.String()),
			slog.String("kind", string(n.Kind)),
			slog.Any("error", err),
		)
		return
	}
	err = s.publisher.PublishNotification(ctx, stored)
	metrics.NotificationPublished(err == nil)
	if err != nil {
		s.log.WarnContext(ctx, "publish notification",
			slog.String("notification_id", stored.ID.String()),
			slog.String("kind", string(stored.Kind)),
			slog.Any("error", err),
		)
	}
}

// List returns one page of actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	out, total, err := s.notifications.List(ctx, actor, unreadOnly, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NotificationService.List: %w", err)
	}
	return nonNil(out), total, nil
}

// UnreadCount returns how many of actor's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error) {
	n, err := s.notifications.UnreadCount(ctx, actor)
	if err != nil {
		return 0, fmt.Errorf("service.NotificationService.UnreadCount: %w", err)
	}
	return n, nil
}

// MarkRead marks one of actor's notifications as read. Notifications of other
// users are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, actor, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.NotificationService.MarkRead: %w", err)
	}
	return n, nil
}

// MarkAllRead marks every notification of actor as read and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, actor)
	if err != nil {
		return 0, fmt.Errorf("service.NotificationService.MarkAllRead: %w", err)
	}
	return n, nil
}
