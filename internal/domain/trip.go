// Package domain contains the core data types for TravelHub and the small
// pure rules that operate on them (ordering, visibility, median coordinates).
// It is imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a trip is created without a currency.
const DefaultCurrency = "EUR"

// Trip is the top-level planning unit. Days, activities, expenses, the
// checklist and the blog all belong to a trip.
// StartDate and EndDate are either both set or both nil.
type Trip struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DayCount returns the number of calendar days the trip spans, inclusive.
// Undated trips return 0.
func (t Trip) DayCount() int {
	if t.StartDate == nil || t.EndDate == nil {
		return 0
	}
	return int(truncateDay(*t.EndDate).Sub(truncateDay(*t.StartDate)).Hours()/24) + 1
}

// DateOfDay returns the calendar date of day number n (1-based), or nil when
// the trip is undated.
func (t Trip) DateOfDay(n int) *time.Time {
	if t.StartDate == nil {
		return nil
	}
	d := truncateDay(*t.StartDate).AddDate(0, 0, n-1)
	return &d
}

// ParticipantRole distinguishes the trip owner from invited members.
type ParticipantRole string

const (
	RoleOwner  ParticipantRole = "owner"
	RoleMember ParticipantRole = "member"
)

// TripParticipant links a user to a trip. UserName and DisplayName are
// denormalised from users for listing.
type TripParticipant struct {
	TripID      uuid.UUID
	UserID      uuid.UUID
	Role        ParticipantRole
	UserName    string
	DisplayName string
	JoinedAt    time.Time
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
