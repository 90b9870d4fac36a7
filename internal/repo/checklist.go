package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelhub/backend/internal/domain"
)

// ChecklistRepo defines the persistence operations for trip checklist items.
type ChecklistRepo interface {
	// Create inserts an item. The unique index on (trip_id, title_key)
	// turns duplicates into domain.ErrConflict.
	Create(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)

	// SetDone updates the done flag and returns the item.
	SetDone(ctx context.Context, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

type pgChecklistRepo struct {
	db db
}

// NewChecklistRepo constructs a ChecklistRepo backed by the provided db connection.
func NewChecklistRepo(db db) ChecklistRepo {
	return &pgChecklistRepo{db: db}
}

const checklistColumns = `id, trip_id, title, done, created_at`

func (r *pgChecklistRepo) Create(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	const q = `
		INSERT INTO checklist_items (trip_id, title, title_key, done)
		VALUES (@trip_id, @title, @title_key, @done)
		RETURNING ` + checklistColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id":   item.TripID,
		"title":     item.Title,
		"title_key": domain.NormalizeChecklistTitle(item.Title),
		"done":      item.Done,
	})
	result, err := scanChecklistItem(row)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ChecklistRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgChecklistRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	q := `SELECT ` + checklistColumns + ` FROM checklist_items WHERE trip_id = @trip_id ORDER BY created_at, title`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanChecklistItem)
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByTrip: %w", err)
	}
	return out, nil
}

func (r *pgChecklistRepo) SetDone(ctx context.Context, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error) {
	const q = `
		UPDATE checklist_items SET done = @done
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + checklistColumns

	result, err := scanChecklistItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID, "done": done}))
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ChecklistRepo.SetDone: %w", translate(err))
	}
	return result, nil
}

func (r *pgChecklistRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM checklist_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ChecklistRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ChecklistRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanChecklistItem(s scanner) (domain.ChecklistItem, error) {
	var (
		it       domain.ChecklistItem
		id, trip pgtype.UUID
	)
	if err := s.Scan(&id, &trip, &it.Title, &it.Done, &it.CreatedAt); err != nil {
		return domain.ChecklistItem{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(trip.Bytes)
	return it, nil
}
