package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies what happened.
type NotificationKind string

const (
	NotifyFriendRequest  NotificationKind = "friend_request"
	NotifyFriendAccepted NotificationKind = "friend_accepted"
	NotifyTripInvite     NotificationKind = "trip_invite"
	NotifyExpenseAdded   NotificationKind = "expense_added"
	NotifyCommentAdded   NotificationKind = "comment_added"
)

// Notification is a message addressed to one user. EntityType/EntityID point
// at the object that triggered it (e.g. "trip", trip ID).
type Notification struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       NotificationKind
	Message    string
	EntityType string
	EntityID   *uuid.UUID
	IsRead     bool
	CreatedAt  time.Time
}
