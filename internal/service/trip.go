package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/ledger"
	"github.com/travelhub/backend/internal/repo"
)

// MaxTripDays bounds the date range of a trip, and with it the number of
// generated days.
const MaxTripDays = 366

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// TripService implements business logic for trips and their participants.
type TripService struct {
	repos    repo.Repos
	tx       repo.Transactor
	notifier Notifier
}

// NewTripService constructs a TripService.
func NewTripService(repos repo.Repos, tx repo.Transactor, notifier Notifier) *TripService {
	return &TripService{repos: repos, tx: tx, notifier: notifier}
}

// Create validates and persists a new trip owned by actor. In the same
// transaction the owner becomes a participant, a private blog is created and
// one day per calendar date is generated.
func (s *TripService) Create(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.OwnerID = actor
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, err
	}

	var created domain.Trip
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		var err error
		if created, err = r.Trips.Create(ctx, trip); err != nil {
			return err
		}
		if err := r.Trips.AddParticipant(ctx, created.ID, actor, domain.RoleOwner); err != nil {
			return err
		}
		_, err = r.Blogs.Create(ctx, domain.Blog{
			TripID:     created.ID,
			Title:      created.Name,
			Visibility: domain.VisibilityPrivate,
		})
		if err != nil {
			return err
		}
		for n := 1; n <= created.DayCount(); n++ {
			if _, err := r.Days.Create(ctx, domain.Day{TripID: created.ID, Number: n, Date: created.DateOfDay(n)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Get returns a trip the actor participates in.
func (s *TripService) Get(ctx context.Context, actor, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, tripID, actor)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// List returns one page of the actor's trips.
func (s *TripService) List(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repos.Trips.ListForUser(ctx, actor, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return nonNil(trips), total, nil
}

// Update overwrites the mutable fields of a trip. Only the owner may update.
// When the date range changes the days are re-synchronised: missing days are
// appended, surplus days are removed if empty, and every date is recomputed.
func (s *TripService) Update(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	existing, err := s.ownedTrip(ctx, actor, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip.OwnerID = existing.OwnerID
	if trip, err = normalizeTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	var updated domain.Trip
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		var err error
		if updated, err = r.Trips.Update(ctx, trip); err != nil {
			return err
		}
		return syncDays(ctx, r, updated)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip and everything it owns. Only the owner may delete.
func (s *TripService) Delete(ctx context.Context, actor, tripID uuid.UUID) error {
	if _, err := s.ownedTrip(ctx, actor, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repos.Trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ListParticipants returns the participants of a trip.
func (s *TripService) ListParticipants(ctx context.Context, actor, tripID uuid.UUID) ([]domain.TripParticipant, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.TripService.ListParticipants: %w", err)
	}
	parts, err := s.repos.Trips.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListParticipants: %w", err)
	}
	return nonNil(parts), nil
}

// AddParticipant lets the owner invite one of the owner's friends.
// Returns domain.ErrForbidden when the actor is not the owner or the user is
// not the owner's friend, domain.ErrConflict when already a participant.
func (s *TripService) AddParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error {
	trip, err := s.ownedTrip(ctx, actor, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.AddParticipant: %w", err)
	}
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("service.TripService.AddParticipant: %w", err)
	}
	friends, err := s.repos.Friends.AreFriends(ctx, trip.OwnerID, userID)
	if err != nil {
		return fmt.Errorf("service.TripService.AddParticipant: %w", err)
	}
	if !friends {
		return fmt.Errorf("service.TripService.AddParticipant: %w: only friends can be added to a trip", domain.ErrForbidden)
	}
	if err := s.repos.Trips.AddParticipant(ctx, tripID, userID, domain.RoleMember); err != nil {
		return fmt.Errorf("service.TripService.AddParticipant: %w", err)
	}

	s.notifier.Notify(ctx, domain.Notification{
		UserID:     userID,
		Kind:       domain.NotifyTripInvite,
		Message:    fmt.Sprintf("You were added to the trip %q", trip.Name),
		EntityType: "trip",
		EntityID:   &trip.ID,
	})
	return nil
}

// RemoveParticipant removes userID from the trip. The owner may remove any
// member and a member may remove themselves (leave). The owner cannot be
// removed, and nobody leaves with an unsettled balance: domain.ErrConflict
// until their debts are settled.
func (s *TripService) RemoveParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error {
	trip, err := tripAccess(ctx, s.repos.Trips, tripID, actor)
	if err != nil {
		return fmt.Errorf("service.TripService.RemoveParticipant: %w", err)
	}
	if userID == trip.OwnerID {
		return fmt.Errorf("%w: the owner cannot leave the trip", domain.ErrValidation)
	}
	if actor != trip.OwnerID && actor != userID {
		return fmt.Errorf("service.TripService.RemoveParticipant: %w: only the owner can remove other participants", domain.ErrForbidden)
	}
	if err := s.checkSettled(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.RemoveParticipant: %w", err)
	}
	if err := s.repos.Trips.RemoveParticipant(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.RemoveParticipant: %w", err)
	}
	return nil
}

// checkSettled fails with domain.ErrConflict when userID has a non-zero
// balance now or would have one once expenses shared by everyone are split
// among the remaining participants.
func (s *TripService) checkSettled(ctx context.Context, tripID, userID uuid.UUID) error {
	expenses, err := s.repos.Expenses.ListByTrip(ctx, tripID)
	if err != nil || len(expenses) == 0 {
		return err
	}
	members, err := participantIDs(ctx, s.repos.Trips, tripID)
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(slices.Clone(members), func(id uuid.UUID) bool { return id == userID })

	for _, group := range [][]uuid.UUID{members, remaining} {
		balances, err := ledger.Balances(group, expenses)
		if err != nil {
			return err
		}
		for _, b := range balances {
			if b.UserID == userID && !b.Amount.IsZero() {
				return fmt.Errorf("%w: participant has an unsettled balance of %s", domain.ErrConflict, b.Amount.StringFixed(2))
			}
		}
	}
	return nil
}

// MapCenter returns the per-axis median of the trip's located activities, or
// of one day's when dayID is set. Returns domain.ErrNotFound when no activity
// has coordinates.
func (s *TripService) MapCenter(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) (domain.Coordinate, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Coordinate{}, fmt.Errorf("service.TripService.MapCenter: %w", err)
	}

	var (
		acts []domain.Activity
		err  error
	)
	if dayID != nil {
		acts, err = s.repos.Activities.ListByDay(ctx, tripID, dayID)
	} else {
		acts, err = s.repos.Activities.ListByTrip(ctx, tripID)
	}
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("service.TripService.MapCenter: %w", err)
	}

	var points []domain.Coordinate
	for _, a := range acts {
		if c, ok := a.Coordinate(); ok {
			points = append(points, c)
		}
	}
	center, ok := domain.MedianCoordinate(points)
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("service.TripService.MapCenter: %w: no activity has coordinates", domain.ErrNotFound)
	}
	return center, nil
}

// ownedTrip loads a trip and requires actor to be its owner.
func (s *TripService) ownedTrip(ctx context.Context, actor, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, tripID, actor)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.OwnerID != actor {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner can do this", domain.ErrForbidden)
	}
	return trip, nil
}

// normalizeTrip enforces business rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Dates are both set or both empty, and end is not before start.
//   - Currency defaults to EUR and must be a three-letter ISO code.
func normalizeTrip(trip domain.Trip) (domain.Trip, error) {
	name, err := required("name", trip.Name)
	if err != nil {
		return domain.Trip{}, err
	}
	trip.Name = name
	trip.Description = strings.TrimSpace(trip.Description)

	if (trip.StartDate == nil) != (trip.EndDate == nil) {
		return domain.Trip{}, fmt.Errorf("%w: start_date and end_date must be set together", domain.ErrValidation)
	}
	if trip.StartDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return domain.Trip{}, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if trip.DayCount() > MaxTripDays {
		return domain.Trip{}, fmt.Errorf("%w: a trip cannot span more than %d days", domain.ErrValidation, MaxTripDays)
	}

	trip.Currency = strings.ToUpper(strings.TrimSpace(trip.Currency))
	if trip.Currency == "" {
		trip.Currency = domain.DefaultCurrency
	}
	if !currencyPattern.MatchString(trip.Currency) {
		return domain.Trip{}, fmt.Errorf("%w: currency must be a three-letter ISO 4217 code", domain.ErrValidation)
	}
	return trip, nil
}

// syncDays aligns a trip's days with its date range. Undated trips keep their
// days with dates cleared.
func syncDays(ctx context.Context, r repo.Repos, trip domain.Trip) error {
	days, err := r.Days.ListByTrip(ctx, trip.ID)
	if err != nil {
		return err
	}
	days = domain.ResequenceDays(days)

	want := trip.DayCount()
	kept := days
	if trip.StartDate != nil && len(days) > want {
		kept = days[:want]
		for _, d := range days[want:] {
			empty, err := r.Days.IsEmpty(ctx, d.ID)
			if err != nil {
				return err
			}
			if !empty {
				return fmt.Errorf("%w: day %d still has activities or posts", domain.ErrValidation, d.Number)
			}
			if err := r.Days.Delete(ctx, trip.ID, d.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
	}

	for i := range kept {
		kept[i].Date = trip.DateOfDay(kept[i].Number)
	}
	if err := r.Days.Renumber(ctx, kept); err != nil {
		return err
	}

	for n := len(kept) + 1; n <= want; n++ {
		if _, err := r.Days.Create(ctx, domain.Day{TripID: trip.ID, Number: n, Date: trip.DateOfDay(n)}); err != nil {
			return err
		}
	}
	return nil
}
