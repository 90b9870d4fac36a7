package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips and their participants.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListForUser returns one page of trips the user participates in,
	// most recent start date first, plus the total count.
	ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and everything it owns.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddParticipant links a user to a trip.
	// Returns domain.ErrConflict when the user already participates.
	AddParticipant(ctx context.Context, tripID, userID uuid.UUID, role domain.ParticipantRole) error

	// RemoveParticipant unlinks a user. Returns domain.ErrNotFound when the
	// user was not a participant.
	RemoveParticipant(ctx context.Context, tripID, userID uuid.UUID) error

	// ListParticipants returns participants ordered by join time.
	ListParticipants(ctx context.Context, tripID uuid.UUID) ([]domain.TripParticipant, error)

	// IsParticipant reports whether userID participates in tripID.
	IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, name, description, start_date, end_date, currency, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_id, name, description, start_date, end_date, currency)
		VALUES (@owner_id, @name, @description, @start_date, @end_date, @currency)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_id":    trip.OwnerID,
		"name":        trip.Name,
		"description": trip.Description,
		"start_date":  trip.StartDate, // nil becomes NULL
		"end_date":    trip.EndDate,
		"currency":    trip.Currency,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", translate(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// ListForUser returns trips joined through trip_participants.
// Undated trips sort last; ties fall back to creation time.
func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	args := pgx.NamedArgs{"user_id": userID, "limit": p.Limit, "offset": p.Offset()}

	var total int64
	const countQ = `SELECT count(*) FROM trip_participants WHERE user_id = @user_id`
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: count: %w", err)
	}

	const q = `
		SELECT t.id, t.owner_id, t.name, t.description, t.start_date, t.end_date, t.currency, t.created_at, t.updated_at
		FROM trips t
		JOIN trip_participants tp ON tp.trip_id = t.id
		WHERE tp.user_id = @user_id
		ORDER BY t.start_date DESC NULLS LAST, t.created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name        = @name,
		    description = @description,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    currency    = @currency,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"name":        trip.Name,
		"description": trip.Description,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"currency":    trip.Currency,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", translate(err))
	}
	return result, nil
}

// Delete removes a trip by primary key. Dependent rows cascade.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) AddParticipant(ctx context.Context, tripID, userID uuid.UUID, role domain.ParticipantRole) error {
	const q = `
		INSERT INTO trip_participants (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "role": string(role)})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.AddParticipant: %w", translate(err))
	}
	return nil
}

func (r *pgTripRepo) RemoveParticipant(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_participants WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.RemoveParticipant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.RemoveParticipant: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]domain.TripParticipant, error) {
	const q = `
		SELECT tp.trip_id, tp.user_id, tp.role, u.user_name, u.display_name, tp.joined_at
		FROM trip_participants tp
		JOIN users u ON u.id = tp.user_id
		WHERE tp.trip_id = @trip_id
		ORDER BY tp.joined_at, u.user_name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListParticipants: %w", err)
	}
	out, err := collect(rows, scanParticipant)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListParticipants: %w", err)
	}
	return out, nil
}

func (r *pgTripRepo) IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM trip_participants WHERE trip_id = @trip_id AND user_id = @user_id
		)`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.TripRepo.IsParticipant: %w", err)
	}
	return ok, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id, owner pgtype.UUID
		start     pgtype.Date
		end       pgtype.Date
	)

	err := s.Scan(&id, &owner, &t.Name, &t.Description, &start, &end, &t.Currency, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = datePtr(start)
	t.EndDate = datePtr(end)
	return t, nil
}

func scanParticipant(s scanner) (domain.TripParticipant, error) {
	var (
		p          domain.TripParticipant
		trip, user pgtype.UUID
		role       string
	)
	if err := s.Scan(&trip, &user, &role, &p.UserName, &p.DisplayName, &p.JoinedAt); err != nil {
		return domain.TripParticipant{}, err
	}
	p.TripID = uuid.UUID(trip.Bytes)
	p.UserID = uuid.UUID(user.Bytes)
	p.Role = domain.ParticipantRole(role)
	return p, nil
}
