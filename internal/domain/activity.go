package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityKind distinguishes plain activities from their specialisations.
type ActivityKind string

const (
	KindActivity      ActivityKind = "activity"
	KindSpot          ActivityKind = "spot"
	KindAccommodation ActivityKind = "accommodation"
)

// Valid reports whether k is one of the known kinds.
func (k ActivityKind) Valid() bool {
	switch k {
	case KindActivity, KindSpot, KindAccommodation:
		return true
	}
	return false
}

// Activity is an itinerary item. DayID is nil for unscheduled items.
// Order is 1..N within a day.
//
// Spots are activities that are expected to carry coordinates.
// Accommodations additionally carry CheckIn/CheckOut dates, which form a
// half-open range [CheckIn, CheckOut).
type Activity struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	DayID       *uuid.UUID
	Kind        ActivityKind
	Order       int
	Name        string
	Description string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Latitude    *float64
	Longitude   *float64
	Address     string
	Cost        *decimal.Decimal
	Currency    string
	CheckIn     *time.Time
	CheckOut    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTimed reports whether both start and end times are set.
func (a Activity) IsTimed() bool {
	return a.StartsAt != nil && a.EndsAt != nil
}

// Located reports whether the activity has both coordinates.
func (a Activity) Located() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// CollidesWith reports whether the time windows of a and b overlap.
// Windows that merely touch (a ends when b starts) do not collide.
// Untimed activities never collide.
func (a Activity) CollidesWith(b Activity) bool {
	if !a.IsTimed() || !b.IsTimed() {
		return false
	}
	return a.StartsAt.Before(*b.EndsAt) && b.StartsAt.Before(*a.EndsAt)
}

// StayOverlaps reports whether two accommodations' [CheckIn, CheckOut)
// ranges intersect.
func (a Activity) StayOverlaps(b Activity) bool {
	if a.CheckIn == nil || a.CheckOut == nil || b.CheckIn == nil || b.CheckOut == nil {
		return false
	}
	return a.CheckIn.Before(*b.CheckOut) && b.CheckIn.Before(*a.CheckOut)
}

// Coordinate returns the activity's location; ok is false when unlocated.
func (a Activity) Coordinate() (Coordinate, bool) {
	if !a.Located() {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *a.Latitude, Longitude: *a.Longitude}, true
}

// OrderChange is a pending write produced by re-sequencing.
type OrderChange struct {
	ID    uuid.UUID
	DayID *uuid.UUID
	Order int
}
