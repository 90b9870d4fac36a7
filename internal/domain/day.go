package domain

import (
	"time"

	"github.com/google/uuid"
)

// Day is one numbered day of a trip's itinerary. Numbers are contiguous
// 1..N within a trip. Date is nil for undated trips.
type Day struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Number    int
	Date      *time.Time
	Title     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
