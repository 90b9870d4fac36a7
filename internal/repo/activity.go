package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// ActivityRepo defines the persistence operations for activities, spots and
// accommodations. All reads and writes are scoped by tripID.
type ActivityRepo interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID returns domain.ErrNotFound if the activity does not exist under the trip.
	GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)

	// ListByTrip returns every activity of the trip ordered by day number,
	// then order. Unscheduled activities come last.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	// ListByDay returns the activities of one day ordered by order. A nil
	// dayID lists the trip's unscheduled activities.
	ListByDay(ctx context.Context, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error)

	// ListAccommodations returns the trip's accommodations.
	ListAccommodations(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, tripID, activityID uuid.UUID) error

	// ApplyOrder writes day and order for every change in one batch.
	ApplyOrder(ctx context.Context, changes []domain.OrderChange) error
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `a.id, a.trip_id, a.day_id, a.kind, a.position, a.name, a.description,
	a.starts_at, a.ends_at, a.latitude, a.longitude, a.address, a.cost::text, a.currency,
	a.check_in, a.check_out, a.created_at, a.updated_at`

func activityArgs(a domain.Activity) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":          a.ID,
		"trip_id":     a.TripID,
		"day_id":      a.DayID,
		"kind":        string(a.Kind),
		"position":    a.Order,
		"name":        a.Name,
		"description": a.Description,
		"starts_at":   a.StartsAt,
		"ends_at":     a.EndsAt,
		"latitude":    a.Latitude,
		"longitude":   a.Longitude,
		"address":     a.Address,
		"cost":        decArg(a.Cost),
		"currency":    a.Currency,
		"check_in":    a.CheckIn,
		"check_out":   a.CheckOut,
	}
}

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities AS a (trip_id, day_id, kind, position, name, description,
			starts_at, ends_at, latitude, longitude, address, cost, currency, check_in, check_out)
		VALUES (@trip_id, @day_id, @kind, @position, @name, @description,
			@starts_at, @ends_at, @latitude, @longitude, @address, @cost::text::numeric, @currency,
			@check_in, @check_out)
		RETURNING ` + activityColumns

	result, err := scanActivity(r.db.QueryRow(ctx, q, activityArgs(a)))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	q := `SELECT ` + activityColumns + ` FROM activities a WHERE a.id = @id AND a.trip_id = @trip_id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	q := `SELECT ` + activityColumns + `
		FROM activities a
		LEFT JOIN days d ON d.id = a.day_id
		WHERE a.trip_id = @trip_id
		ORDER BY d.number NULLS LAST, a.position, a.created_at`

	return r.list(ctx, "ListByTrip", q, pgx.NamedArgs{"trip_id": tripID})
}

func (r *pgActivityRepo) ListByDay(ctx context.Context, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error) {
	q := `SELECT ` + activityColumns + `
		FROM activities a
		WHERE a.trip_id = @trip_id AND a.day_id IS NOT DISTINCT FROM @day_id
		ORDER BY a.position, a.created_at`

	return r.list(ctx, "ListByDay", q, pgx.NamedArgs{"trip_id": tripID, "day_id": dayID})
}

func (r *pgActivityRepo) ListAccommodations(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	q := `SELECT ` + activityColumns + `
		FROM activities a
		WHERE a.trip_id = @trip_id AND a.kind = 'accommodation'
		ORDER BY a.check_in NULLS LAST`

	return r.list(ctx, "ListAccommodations", q, pgx.NamedArgs{"trip_id": tripID})
}

func (r *pgActivityRepo) list(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.%s: %w", op, err)
	}
	out, err := collect(rows, scanActivity)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.%s: %w", op, err)
	}
	return out, nil
}

func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		UPDATE activities AS a
		SET day_id      = @day_id,
		    kind        = @kind,
		    position    = @position,
		    name        = @name,
		    description = @description,
		    starts_at   = @starts_at,
		    ends_at     = @ends_at,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    address     = @address,
		    cost        = @cost::text::numeric,
		    currency    = @currency,
		    check_in    = @check_in,
		    check_out   = @check_out,
		    updated_at  = now()
		WHERE a.id = @id AND a.trip_id = @trip_id
		RETURNING ` + activityColumns

	result, err := scanActivity(r.db.QueryRow(ctx, q, activityArgs(a)))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	const q = `DELETE FROM activities WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": activityID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgActivityRepo) ApplyOrder(ctx context.Context, changes []domain.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	const q = `UPDATE activities SET day_id = @day_id, position = @position, updated_at = now() WHERE id = @id`

	b := &pgx.Batch{}
	for _, c := range changes {
		b.Queue(q, pgx.NamedArgs{"id": c.ID, "day_id": c.DayID, "position": c.Order})
	}
	if err := r.db.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("repo.ActivityRepo.ApplyOrder: %w", err)
	}
	return nil
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a                 domain.Activity
		id, trip, day     pgtype.UUID
		kind              string
		cost              *string
		checkIn, checkOut pgtype.Date
	)
	err := s.Scan(&id, &trip, &day, &kind, &a.Order, &a.Name, &a.Description,
		&a.StartsAt, &a.EndsAt, &a.Latitude, &a.Longitude, &a.Address, &cost, &a.Currency,
		&checkIn, &checkOut, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(trip.Bytes)
	a.DayID = uuidPtr(day)
	a.Kind = domain.ActivityKind(kind)
	a.CheckIn = datePtr(checkIn)
	a.CheckOut = datePtr(checkOut)
	if a.Cost, err = decScan(cost); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}
