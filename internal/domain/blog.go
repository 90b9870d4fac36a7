package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visibility gates who may read and comment on a trip's blog.
type Visibility string

const (
	VisibilityPublic                     Visibility = "public"
	VisibilityPrivate                    Visibility = "private"
	VisibilityForMyFriends               Visibility = "for_my_friends"
	VisibilityForTripParticipantsFriends Visibility = "for_trip_participants_friends"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityForMyFriends, VisibilityForTripParticipantsFriends:
		return true
	}
	return false
}

// Audience describes how a viewer relates to a trip. The service fills it
// from friendship and participation lookups.
type Audience struct {
	IsParticipant       bool
	IsOwnerFriend       bool
	IsParticipantFriend bool
}

// Allows reports whether a viewer with the given audience may read the blog.
// Participants can always read.
func (v Visibility) Allows(a Audience) bool {
	if a.IsParticipant {
		return true
	}
	switch v {
	case VisibilityPublic:
		return true
	case VisibilityForMyFriends:
		return a.IsOwnerFriend
	case VisibilityForTripParticipantsFriends:
		return a.IsOwnerFriend || a.IsParticipantFriend
	}
	return false
}

// Blog is the social page of a trip. There is exactly one per trip.
type Blog struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Title       string
	Description string
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Post is an entry in a blog, optionally attached to an itinerary day.
type Post struct {
	ID        uuid.UUID
	BlogID    uuid.UUID
	AuthorID  uuid.UUID
	DayID     *uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a reader's reply to a post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
}

// Photo is an image attached to a post. The bytes live in object storage
// under StorageKey; URL is the public location.
type Photo struct {
	ID          uuid.UUID
	PostID      uuid.UUID
	StorageKey  string
	URL         string
	ContentType string
	Caption     string
	CreatedAt   time.Time
}

// PhotoUpload is a reserved photo plus the presigned URL the client PUTs to.
type PhotoUpload struct {
	Photo     Photo
	UploadURL string
	ExpiresAt time.Time
}
