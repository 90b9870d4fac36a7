package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransportMode is how a transport leg is travelled.
type TransportMode string

const (
	ModeCar   TransportMode = "car"
	ModeTrain TransportMode = "train"
	ModePlane TransportMode = "plane"
	ModeBus   TransportMode = "bus"
	ModeFerry TransportMode = "ferry"
	ModeWalk  TransportMode = "walk"
	ModeBike  TransportMode = "bike"
	ModeOther TransportMode = "other"
)

// Valid reports whether m is a known mode.
func (m TransportMode) Valid() bool {
	switch m {
	case ModeCar, ModeTrain, ModePlane, ModeBus, ModeFerry, ModeWalk, ModeBike, ModeOther:
		return true
	}
	return false
}

// Transport is a leg between two activities of the same trip.
type Transport struct {
	ID             uuid.UUID
	TripID         uuid.UUID
	FromActivityID uuid.UUID
	ToActivityID   uuid.UUID
	Mode           TransportMode
	DepartsAt      *time.Time
	ArrivesAt      *time.Time
	Cost           *decimal.Decimal
	Currency       string
	Notes          string
	CreatedAt      time.Time
}
