package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is a packing/todo entry of a trip. Titles are unique per trip
// after NormalizeChecklistTitle.
type ChecklistItem struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	Done      bool
	CreatedAt time.Time
}

// NormalizeChecklistTitle returns the key used for uniqueness: trimmed,
// inner whitespace collapsed, lowercased.
func NormalizeChecklistTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
