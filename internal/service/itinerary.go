package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// ItineraryService implements days, activities (including spots and
// accommodations) and transports of a trip.
type ItineraryService struct {
	repos repo.Repos
	tx    repo.Transactor
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(repos repo.Repos, tx repo.Transactor) *ItineraryService {
	return &ItineraryService{repos: repos, tx: tx}
}

// ---- Days --------------------------------------------------------------------

// ListDays returns the trip's days ordered by number.
func (s *ItineraryService) ListDays(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Day, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListDays: %w", err)
	}
	days, err := s.repos.Days.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListDays: %w", err)
	}
	return nonNil(days), nil
}

// AddDay appends a day after the last one. On a dated trip the end date moves
// forward so that days and dates stay aligned.
func (s *ItineraryService) AddDay(ctx context.Context, actor, tripID uuid.UUID, title, notes string) (domain.Day, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Day{}, fmt.Errorf("service.ItineraryService.AddDay: %w", err)
	}

	var created domain.Day
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		days, err := r.Days.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		n := len(days) + 1
		if n > MaxTripDays {
			return fmt.Errorf("%w: a trip cannot span more than %d days", domain.ErrValidation, MaxTripDays)
		}
		date := trip.DateOfDay(n)
		if date != nil {
			trip.EndDate = date
			if _, err := r.Trips.Update(ctx, trip); err != nil {
				return err
			}
		}
		created, err = r.Days.Create(ctx, domain.Day{
			TripID: tripID,
			Number: n,
			Date:   date,
			Title:  strings.TrimSpace(title),
			Notes:  strings.TrimSpace(notes),
		})
		return err
	})
	if err != nil {
		return domain.Day{}, fmt.Errorf("service.ItineraryService.AddDay: %w", err)
	}
	return created, nil
}

// UpdateDay overwrites a day's title and notes.
func (s *ItineraryService) UpdateDay(ctx context.Context, actor uuid.UUID, day domain.Day) (domain.Day, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, day.TripID, actor); err != nil {
		return domain.Day{}, fmt.Errorf("service.ItineraryService.UpdateDay: %w", err)
	}
	day.Title = strings.TrimSpace(day.Title)
	day.Notes = strings.TrimSpace(day.Notes)
	updated, err := s.repos.Days.Update(ctx, day)
	if err != nil {
		return domain.Day{}, fmt.Errorf("service.ItineraryService.UpdateDay: %w", err)
	}
	return updated, nil
}

// DeleteDay removes a day. Its activities become unscheduled and are
// appended to the unscheduled list; the remaining days are renumbered 1..N
// and, on a dated trip, the end date moves back.
func (s *ItineraryService) DeleteDay(ctx context.Context, actor, tripID, dayID uuid.UUID) error {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteDay: %w", err)
	}

	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		trip, err := r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		detached, err := r.Activities.ListByDay(ctx, tripID, &dayID)
		if err != nil {
			return err
		}
		unscheduled, err := r.Activities.ListByDay(ctx, tripID, nil)
		if err != nil {
			return err
		}
		if err := r.Days.Delete(ctx, tripID, dayID); err != nil {
			return err
		}

		// Detached activities go after the existing unscheduled ones.
		after := domain.ResequenceActivities(unscheduled)
		for _, a := range domain.ResequenceActivities(detached) {
			a.DayID = nil
			a.Order = len(after) + 1
			after = append(after, a)
		}
		if err := r.Activities.ApplyOrder(ctx, domain.OrderChanges(slices.Concat(unscheduled, detached), after)); err != nil {
			return err
		}

		days, err := r.Days.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		days = domain.ResequenceDays(days)
		for i := range days {
			days[i].Date = trip.DateOfDay(days[i].Number)
		}
		if err := r.Days.Renumber(ctx, days); err != nil {
			return err
		}

		if trip.StartDate != nil {
			if len(days) == 0 {
				trip.StartDate, trip.EndDate = nil, nil
			} else {
				trip.EndDate = trip.DateOfDay(len(days))
			}
			if _, err := r.Trips.Update(ctx, trip); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteDay: %w", err)
	}
	return nil
}

// ---- Activities --------------------------------------------------------------

// ListActivities returns every activity of the trip, scheduled first.
func (s *ItineraryService) ListActivities(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Activity, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListActivities: %w", err)
	}
	acts, err := s.repos.Activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListActivities: %w", err)
	}
	return nonNil(acts), nil
}

// ListDayActivities returns one day's activities in order; a nil dayID lists
// the unscheduled ones.
func (s *ItineraryService) ListDayActivities(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListDayActivities: %w", err)
	}
	if dayID != nil {
		if _, err := s.repos.Days.GetByID(ctx, tripID, *dayID); err != nil {
			return nil, fmt.Errorf("service.ItineraryService.ListDayActivities: %w", err)
		}
	}
	acts, err := s.repos.Activities.ListByDay(ctx, tripID, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListDayActivities: %w", err)
	}
	return nonNil(acts), nil
}

// GetActivity returns one activity of the trip.
func (s *ItineraryService) GetActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) (domain.Activity, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.GetActivity: %w", err)
	}
	a, err := s.repos.Activities.GetByID(ctx, tripID, activityID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.GetActivity: %w", err)
	}
	return a, nil
}

// CreateActivity validates a and appends it to the end of its day.
// Returns domain.ErrValidation when it overlaps another timed activity of the
// day or, for accommodations, another stay of the trip.
func (s *ItineraryService) CreateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, a.TripID, actor)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.CreateActivity: %w", err)
	}
	if a, err = normalizeActivity(a, trip.Currency); err != nil {
		return domain.Activity{}, err
	}

	var created domain.Activity
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		siblings, err := s.checkPlacement(ctx, r, a)
		if err != nil {
			return err
		}
		a.Order = domain.NextOrder(siblings)
		created, err = r.Activities.Create(ctx, a)
		return err
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.CreateActivity: %w", err)
	}
	return created, nil
}

// UpdateActivity overwrites the descriptive fields of an activity. Day and
// order are kept; use MoveActivity to change them.
func (s *ItineraryService) UpdateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, a.TripID, actor)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.UpdateActivity: %w", err)
	}
	if a, err = normalizeActivity(a, trip.Currency); err != nil {
		return domain.Activity{}, err
	}

	var updated domain.Activity
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		existing, err := r.Activities.GetByID(ctx, a.TripID, a.ID)
		if err != nil {
			return err
		}
		a.DayID = existing.DayID
		a.Order = existing.Order
		if _, err := s.checkPlacement(ctx, r, a); err != nil {
			return err
		}
		updated, err = r.Activities.Update(ctx, a)
		return err
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.UpdateActivity: %w", err)
	}
	return updated, nil
}

// DeleteActivity removes an activity and re-sequences its day.
func (s *ItineraryService) DeleteActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) error {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteActivity: %w", err)
	}

	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		a, err := r.Activities.GetByID(ctx, tripID, activityID)
		if err != nil {
			return err
		}
		if err := r.Activities.Delete(ctx, tripID, activityID); err != nil {
			return err
		}
		rest, err := r.Activities.ListByDay(ctx, tripID, a.DayID)
		if err != nil {
			return err
		}
		return r.Activities.ApplyOrder(ctx, domain.OrderChanges(rest, domain.ResequenceActivities(rest)))
	})
	if err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteActivity: %w", err)
	}
	return nil
}

// MoveActivity places an activity at a 1-based position of targetDay (nil
// means unscheduled). The position is clamped to 1..N+1 and both the source
// and the target day are re-sequenced.
func (s *ItineraryService) MoveActivity(ctx context.Context, actor, tripID, activityID uuid.UUID, targetDay *uuid.UUID, position int) (domain.Activity, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.MoveActivity: %w", err)
	}

	var moved domain.Activity
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		a, err := r.Activities.GetByID(ctx, tripID, activityID)
		if err != nil {
			return err
		}
		if targetDay != nil {
			if _, err := r.Days.GetByID(ctx, tripID, *targetDay); err != nil {
				return dayReference(err)
			}
		}

		source, err := r.Activities.ListByDay(ctx, tripID, a.DayID)
		if err != nil {
			return err
		}
		sameDay := sameDayID(a.DayID, targetDay)
		target := source
		if !sameDay {
			if target, err = r.Activities.ListByDay(ctx, tripID, targetDay); err != nil {
				return err
			}
		}

		a.DayID = targetDay
		others := withoutActivity(target, a.ID)
		if err := checkCollisions(a, others); err != nil {
			return err
		}

		before := target
		after := domain.InsertActivityAt(others, a, position)
		if !sameDay {
			before = slices.Concat(source, target)
			after = slices.Concat(domain.ResequenceActivities(withoutActivity(source, a.ID)), after)
		}
		if err := r.Activities.ApplyOrder(ctx, domain.OrderChanges(before, after)); err != nil {
			return err
		}
		moved, err = r.Activities.GetByID(ctx, tripID, activityID)
		return err
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ItineraryService.MoveActivity: %w", err)
	}
	return moved, nil
}

// checkPlacement verifies a's day belongs to the trip, that a does not overlap
// the other timed activities of that day and, for accommodations, that the
// stay does not overlap another one. It returns a's siblings.
func (s *ItineraryService) checkPlacement(ctx context.Context, r repo.Repos, a domain.Activity) ([]domain.Activity, error) {
	if a.DayID != nil {
		if _, err := r.Days.GetByID(ctx, a.TripID, *a.DayID); err != nil {
			return nil, dayReference(err)
		}
	}
	siblings, err := r.Activities.ListByDay(ctx, a.TripID, a.DayID)
	if err != nil {
		return nil, err
	}
	siblings = withoutActivity(siblings, a.ID)
	if err := checkCollisions(a, siblings); err != nil {
		return nil, err
	}

	if a.Kind == domain.KindAccommodation {
		stays, err := r.Activities.ListAccommodations(ctx, a.TripID)
		if err != nil {
			return nil, err
		}
		for _, other := range stays {
			if other.ID != a.ID && a.StayOverlaps(other) {
				return nil, fmt.Errorf("%w: stay overlaps accommodation %q", domain.ErrValidation, other.Name)
			}
		}
	}
	return siblings, nil
}

// ---- Transports --------------------------------------------------------------

// ListTransports returns the trip's transport legs by departure.
func (s *ItineraryService) ListTransports(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Transport, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListTransports: %w", err)
	}
	legs, err := s.repos.Transports.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.ListTransports: %w", err)
	}
	return nonNil(legs), nil
}

// CreateTransport validates and persists a leg between two different
// activities of the same trip.
func (s *ItineraryService) CreateTransport(ctx context.Context, actor uuid.UUID, t domain.Transport) (domain.Transport, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, t.TripID, actor)
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.ItineraryService.CreateTransport: %w", err)
	}
	if t.FromActivityID == t.ToActivityID {
		return domain.Transport{}, fmt.Errorf("%w: a transport must connect two different activities", domain.ErrValidation)
	}
	if !t.Mode.Valid() {
		return domain.Transport{}, fmt.Errorf("%w: unknown transport mode %q", domain.ErrValidation, t.Mode)
	}
	if t.DepartsAt != nil && t.ArrivesAt != nil && t.ArrivesAt.Before(*t.DepartsAt) {
		return domain.Transport{}, fmt.Errorf("%w: arrives_at must not be before departs_at", domain.ErrValidation)
	}
	if t.Cost != nil && t.Cost.IsNegative() {
		return domain.Transport{}, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if t.Currency, err = currencyOr(t.Currency, trip.Currency); err != nil {
		return domain.Transport{}, err
	}
	t.Notes = strings.TrimSpace(t.Notes)

	for _, id := range []uuid.UUID{t.FromActivityID, t.ToActivityID} {
		if _, err := s.repos.Activities.GetByID(ctx, t.TripID, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Transport{}, fmt.Errorf("%w: activity %s is not part of this trip", domain.ErrValidation, id)
			}
			return domain.Transport{}, fmt.Errorf("service.ItineraryService.CreateTransport: %w", err)
		}
	}

	created, err := s.repos.Transports.Create(ctx, t)
	if err != nil {
		return domain.Transport{}, fmt.Errorf("service.ItineraryService.CreateTransport: %w", err)
	}
	return created, nil
}

// DeleteTransport removes a transport leg.
func (s *ItineraryService) DeleteTransport(ctx context.Context, actor, tripID, transportID uuid.UUID) error {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteTransport: %w", err)
	}
	if err := s.repos.Transports.Delete(ctx, tripID, transportID); err != nil {
		return fmt.Errorf("service.ItineraryService.DeleteTransport: %w", err)
	}
	return nil
}

// ---- helpers -------------------------------------------------------------------

// normalizeActivity enforces the field rules of an activity:
//   - kind is known and name is non-empty;
//   - ends_at is not before starts_at;
//   - coordinates are both set or both empty, and within WGS84 bounds;
//   - only accommodations carry check-in/check-out, and check-out is after check-in;
//   - cost is not negative; currency defaults to the trip currency.
func normalizeActivity(a domain.Activity, tripCurrency string) (domain.Activity, error) {
	if a.Kind == "" {
		a.Kind = domain.KindActivity
	}
	if !a.Kind.Valid() {
		return a, fmt.Errorf("%w: unknown activity kind %q", domain.ErrValidation, a.Kind)
	}
	name, err := required("name", a.Name)
	if err != nil {
		return a, err
	}
	a.Name = name
	a.Description = strings.TrimSpace(a.Description)
	a.Address = strings.TrimSpace(a.Address)

	if a.StartsAt != nil && a.EndsAt != nil && a.EndsAt.Before(*a.StartsAt) {
		return a, fmt.Errorf("%w: ends_at must not be before starts_at", domain.ErrValidation)
	}
	if (a.Latitude == nil) != (a.Longitude == nil) {
		return a, fmt.Errorf("%w: latitude and longitude must be set together", domain.ErrValidation)
	}
	if a.Latitude != nil && (*a.Latitude < -90 || *a.Latitude > 90 || *a.Longitude < -180 || *a.Longitude > 180) {
		return a, fmt.Errorf("%w: coordinates are out of range", domain.ErrValidation)
	}

	if a.Kind == domain.KindAccommodation {
		if a.CheckIn == nil || a.CheckOut == nil {
			return a, fmt.Errorf("%w: accommodations need check_in and check_out", domain.ErrValidation)
		}
		if !a.CheckOut.After(*a.CheckIn) {
			return a, fmt.Errorf("%w: check_out must be after check_in", domain.ErrValidation)
		}
	} else if a.CheckIn != nil || a.CheckOut != nil {
		return a, fmt.Errorf("%w: only accommodations have check_in and check_out", domain.ErrValidation)
	}

	if a.Cost != nil && a.Cost.IsNegative() {
		return a, fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if a.Currency, err = currencyOr(a.Currency, tripCurrency); err != nil {
		return a, err
	}
	return a, nil
}

// currencyOr upper-cases c, falls back to def when empty and checks the ISO
// code shape.
func currencyOr(c, def string) (string, error) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		c = def
	}
	if !currencyPattern.MatchString(c) {
		return "", fmt.Errorf("%w: currency must be a three-letter ISO 4217 code", domain.ErrValidation)
	}
	return c, nil
}

func checkCollisions(a domain.Activity, others []domain.Activity) error {
	for _, other := range others {
		if a.CollidesWith(other) {
			return fmt.Errorf("%w: time overlaps activity %q", domain.ErrValidation, other.Name)
		}
	}
	return nil
}

// dayReference reports an unknown day as a validation error of the payload.
func dayReference(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: day does not belong to this trip", domain.ErrValidation)
	}
	return err
}

func withoutActivity(items []domain.Activity, id uuid.UUID) []domain.Activity {
	return slices.DeleteFunc(slices.Clone(items), func(a domain.Activity) bool { return a.ID == id })
}

func sameDayID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
