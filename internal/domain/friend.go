package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequestStatus is the lifecycle state of a friend request.
// Pending is the only non-terminal state.
type FriendRequestStatus string

const (
	FriendRequestPending   FriendRequestStatus = "pending"
	FriendRequestAccepted  FriendRequestStatus = "accepted"
	FriendRequestDeclined  FriendRequestStatus = "declined"
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s FriendRequestStatus) IsTerminal() bool {
	return s != FriendRequestPending
}

// FriendRequest is a pending or resolved social edge between two users.
type FriendRequest struct {
	ID         uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Status     FriendRequestStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
