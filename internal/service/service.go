// Package service contains the business logic for the TravelHub API.
// Services validate inputs, enforce business rules and access control, and
// orchestrate repo calls. No SQL lives here: services depend on repo
// interfaces, not implementations.
//
// Every method that touches trip content takes the acting user's ID and
// requires that user to participate in the trip.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// Notifier delivers a notification to a user. Delivery is best effort:
// implementations log failures instead of returning them, so a write never
// fails because its side effect did.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// tripAccess loads a trip and checks that actor participates in it.
// Returns domain.ErrNotFound for unknown trips and domain.ErrForbidden for
// non-participants.
func tripAccess(ctx context.Context, trips repo.TripRepo, tripID, actor uuid.UUID) (domain.Trip, error) {
	trip, err := trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	ok, err := trips.IsParticipant(ctx, tripID, actor)
	if err != nil {
		return domain.Trip{}, err
	}
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: not a participant of this trip", domain.ErrForbidden)
	}
	return trip, nil
}

// participantIDs returns the user IDs of a trip's participants.
func participantIDs(ctx context.Context, trips repo.TripRepo, tripID uuid.UUID) ([]uuid.UUID, error) {
	parts, err := trips.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		ids[i] = p.UserID
	}
	return ids, nil
}

// required trims s and fails validation when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return s, nil
}

// nonNil returns s, or an empty slice when s is nil, so JSON renders [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
