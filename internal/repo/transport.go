package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// TransportRepo defines the persistence operations for transport legs.
type TransportRepo interface {
	Create(ctx context.Context, t domain.Transport) (domain.Transport, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Transport, error)
	Delete(ctx context.Context, tripID, transportID uuid.UUID) error
}

type pgTransportRepo struct {
	db db
}

// NewTransportRepo constructs a TransportRepo backed by the provided db connection.
func NewTransportRepo(db db) TransportRepo {
	return &pgTransportRepo{db: db}
}

const transportColumns = `id, trip_id, from_activity_id, to_activity_id, mode, departs_at, arrives_at,
	cost::text, currency, notes, created_at`

func (r *pgTransportRepo) Create(ctx context.Context, t domain.Transport) (domain.Transport, error) {
	const q = `
		INSERT INTO transports (trip_id, from_activity_id, to_activity_id, mode, departs_at, arrives_at, cost, currency, notes)
		VALUES (@trip_id, @from_id, @to_id, @mode, @departs_at, @arrives_at, @cost::text::numeric, @currency, @notes)
		RETURNING ` + transportColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":    t.TripID,
		"from_id":    t.FromActivityID,
		"to_id":      t.ToActivityID,
		"mode":       string(t.Mode),
		"departs_at": t.DepartsAt,
		"arrives_at": t.ArrivesAt,
		"cost":       decArg(t.Cost),
		"currency":   t.Currency,
		"notes":      t.Notes,
	})
	result, err := scanTransport(row)
	if err != nil {
		return domain.Transport{}, fmt.Errorf("repo.TransportRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgTransportRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Transport, error) {
	q := `SELECT ` + transportColumns + `
		FROM transports
		WHERE trip_id = @trip_id
		ORDER BY departs_at NULLS LAST, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TransportRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanTransport)
	if err != nil {
		return nil, fmt.Errorf("repo.TransportRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgTransportRepo) Delete(ctx context.Context, tripID, transportID uuid.UUID) error {
	const q = `DELETE FROM transports WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": transportID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.TransportRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TransportRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTransport(s scanner) (domain.Transport, error) {
	var (
		t                  domain.Transport
		id, trip, from, to pgtype.UUID
		mode               string
		cost               *string
	)
	err := s.Scan(&id, &trip, &from, &to, &mode, &t.DepartsAt, &t.ArrivesAt, &cost, &t.Currency, &t.Notes, &t.CreatedAt)
	if err != nil {
		return domain.Transport{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.TripID = uuid.UUID(trip.Bytes)
	t.FromActivityID = uuid.UUID(from.Bytes)
	t.ToActivityID = uuid.UUID(to.Bytes)
	t.Mode = domain.TransportMode(mode)
	if t.Cost, err = decScan(cost); err != nil {
		return domain.Transport{}, err
	}
	return t, nil
}
