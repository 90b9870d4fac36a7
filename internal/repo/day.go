package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// DayRepo defines the persistence operations for itinerary days.
type DayRepo interface {
	// Create inserts a day with the number and date already decided by the caller.
	Create(ctx context.Context, day domain.Day) (domain.Day, error)

	// GetByID retrieves a day scoped to its trip.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error)

	// ListByTrip returns the trip's days ordered by number.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)

	// Update overwrites title and notes.
	Update(ctx context.Context, day domain.Day) (domain.Day, error)

	// Delete removes a day. Its activities are detached by the FK (SET NULL).
	Delete(ctx context.Context, tripID, dayID uuid.UUID) error

	// Renumber writes number and date for every given day in one batch.
	Renumber(ctx context.Context, days []domain.Day) error

	// IsEmpty reports whether no activity or post references the day.
	IsEmpty(ctx context.Context, dayID uuid.UUID) (bool, error)
}

type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

const dayColumns = `id, trip_id, number, date, title, notes, created_at, updated_at`

func (r *pgDayRepo) Create(ctx context.Context, day domain.Day) (domain.Day, error) {
	const q = `
		INSERT INTO days (trip_id, number, date, title, notes)
		VALUES (@trip_id, @number, @date, @title, @notes)
		RETURNING ` + dayColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id": day.TripID,
		"number":  day.Number,
		"date":    day.Date,
		"title":   day.Title,
		"notes":   day.Notes,
	})
	result, err := scanDay(row)
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error) {
	q := `SELECT ` + dayColumns + ` FROM days WHERE id = @id AND trip_id = @trip_id`

	result, err := scanDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID}))
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	q := `SELECT ` + dayColumns + ` FROM days WHERE trip_id = @trip_id ORDER BY number, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTrip: %w", err)
	}
	days, err := collect(rows, scanDay)
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTrip: %w", err)
	}
	return days, nil
}

func (r *pgDayRepo) Update(ctx context.Context, day domain.Day) (domain.Day, error) {
	const q = `
		UPDATE days
		SET title = @title, notes = @notes, updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + dayColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":      day.ID,
		"trip_id": day.TripID,
		"title":   day.Title,
		"notes":   day.Notes,
	})
	result, err := scanDay(row)
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	const q = `DELETE FROM days WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Renumber queues one UPDATE per day and sends them as a single batch.
func (r *pgDayRepo) Renumber(ctx context.Context, days []domain.Day) error {
	if len(days) == 0 {
		return nil
	}
	const q = `UPDATE days SET number = @number, date = @date, updated_at = now() WHERE id = @id`

	b := &pgx.Batch{}
	for _, d := range days {
		b.Queue(q, pgx.NamedArgs{"id": d.ID, "number": d.Number, "date": d.Date})
	}
	if err := r.db.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("repo.DayRepo.Renumber: %w", err)
	}
	return nil
}

func (r *pgDayRepo) IsEmpty(ctx context.Context, dayID uuid.UUID) (bool, error) {
	const q = `
		SELECT NOT EXISTS (SELECT 1 FROM activities WHERE day_id = @id)
		   AND NOT EXISTS (SELECT 1 FROM posts WHERE day_id = @id)`

	var empty bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID}).Scan(&empty); err != nil {
		return false, fmt.Errorf("repo.DayRepo.IsEmpty: %w", err)
	}
	return empty, nil
}

func scanDay(s scanner) (domain.Day, error) {
	var (
		d        domain.Day
		id, trip pgtype.UUID
		date     pgtype.Date
	)
	if err := s.Scan(&id, &trip, &d.Number, &date, &d.Title, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return domain.Day{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(trip.Bytes)
	d.Date = datePtr(date)
	return d, nil
}
