package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
)

// ExpenseRepo defines the persistence operations for expenses and their
// participant shares. Create and Update write several tables and must run
// inside a transaction (see Transactor).
type ExpenseRepo interface {
	// Create inserts the expense and its participant rows.
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// GetByID returns an expense of a trip with its participants loaded.
	GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)

	// ListByTrip returns all expenses of a trip with participants, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// Update overwrites the expense and replaces its participant rows.
	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)

	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, title, paid_by, transferred_to, value::text, estimated_value::text,
	currency, exchange_rate::text, fee_percent::text, spent_at, created_by, created_at, updated_at`

func expenseArgs(e domain.Expense) pgx.NamedArgs {
	rate := e.Rate()
	return pgx.NamedArgs{
		"id":              e.ID,
		"trip_id":         e.TripID,
		"title":           e.Title,
		"paid_by":         e.PaidBy,
		"transferred_to":  e.TransferredTo,
		"value":           decArg(e.Value),
		"estimated_value": decArg(e.EstimatedValue),
		"currency":        e.Currency,
		"exchange_rate":   rate.String(),
		"fee_percent":     e.FeePercent.String(),
		"spent_at":        e.SpentAt,
		"created_by":      e.CreatedBy,
	}
}

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, title, paid_by, transferred_to, value, estimated_value,
			currency, exchange_rate, fee_percent, spent_at, created_by)
		VALUES (@trip_id, @title, @paid_by, @transferred_to, @value::text::numeric, @estimated_value::text::numeric,
			@currency, @exchange_rate::text::numeric, @fee_percent::text::numeric, @spent_at, @created_by)
		RETURNING ` + expenseColumns

	result, err := scanExpense(r.db.QueryRow(ctx, q, expenseArgs(e)))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", translate(err))
	}
	if err := r.insertParticipants(ctx, result.ID, e.Participants); err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	result.Participants = e.Participants
	if result.Participants == nil {
		result.Participants = []domain.ExpenseParticipant{}
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	q := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = @id AND trip_id = @trip_id`

	e, err := scanExpense(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID}))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", translate(err))
	}
	parts, err := r.participants(ctx, []uuid.UUID{e.ID})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	e.Participants = orEmpty(parts[e.ID])
	return e, nil
}

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	q := `SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY spent_at DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	out, err := collect(rows, scanExpense)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(out))
	for i, e := range out {
		ids[i] = e.ID
	}
	parts, err := r.participants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	for i := range out {
		out[i].Participants = orEmpty(parts[out[i].ID])
	}
	return out, nil
}

func (r *pgExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET title           = @title,
		    paid_by         = @paid_by,
		    transferred_to  = @transferred_to,
		    value           = @value::text::numeric,
		    estimated_value = @estimated_value::text::numeric,
		    currency        = @currency,
		    exchange_rate   = @exchange_rate::text::numeric,
		    fee_percent     = @fee_percent::text::numeric,
		    spent_at        = @spent_at,
		    updated_at      = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + expenseColumns

	result, err := scanExpense(r.db.QueryRow(ctx, q, expenseArgs(e)))
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", translate(err))
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM expense_participants WHERE expense_id = @id`, pgx.NamedArgs{"id": e.ID}); err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: clear participants: %w", err)
	}
	if err := r.insertParticipants(ctx, result.ID, e.Participants); err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", err)
	}
	result.Participants = orEmpty(e.Participants)
	return result, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// insertParticipants writes all participant rows in one round trip.
func (r *pgExpenseRepo) insertParticipants(ctx context.Context, expenseID uuid.UUID, parts []domain.ExpenseParticipant) error {
	if len(parts) == 0 {
		return nil
	}
	const q = `
		INSERT INTO expense_participants (expense_id, user_id, position, share, actual_share_value)
		VALUES (@expense_id, @user_id, @position, @share::text::numeric, @actual::text::numeric)`

	b := &pgx.Batch{}
	for i, p := range parts {
		b.Queue(q, pgx.NamedArgs{
			"expense_id": expenseID,
			"user_id":    p.UserID,
			"position":   i + 1,
			"share":      decArg(p.Share),
			"actual":     decArg(p.ActualShareValue),
		})
	}
	br := r.db.SendBatch(ctx, b)
	defer br.Close()
	for range parts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert participant: %w", translate(err))
		}
	}
	return nil
}

// participants loads participant rows for the given expenses, keyed by expense.
func (r *pgExpenseRepo) participants(ctx context.Context, expenseIDs []uuid.UUID) (map[uuid.UUID][]domain.ExpenseParticipant, error) {
	const q = `
		SELECT expense_id, user_id, share::text, actual_share_value::text
		FROM expense_participants
		WHERE expense_id = ANY(@ids)
		ORDER BY expense_id, position`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": expenseIDs})
	if err != nil {
		return nil, fmt.Errorf("participants: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.ExpenseParticipant, len(expenseIDs))
	for rows.Next() {
		var (
			expID, userID pgtype.UUID
			share, actual *string
		)
		if err := rows.Scan(&expID, &userID, &share, &actual); err != nil {
			return nil, fmt.Errorf("participants: scan: %w", err)
		}
		p := domain.ExpenseParticipant{UserID: uuid.UUID(userID.Bytes)}
		if p.Share, err = decScan(share); err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		if p.ActualShareValue, err = decScan(actual); err != nil {
			return nil, fmt.Errorf("participants: %w", err)
		}
		key := uuid.UUID(expID.Bytes)
		out[key] = append(out[key], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("participants: rows: %w", err)
	}
	return out, nil
}

func orEmpty(parts []domain.ExpenseParticipant) []domain.ExpenseParticipant {
	if parts == nil {
		return []domain.ExpenseParticipant{}
	}
	return parts
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e                         domain.Expense
		id, trip, paidBy, creator pgtype.UUID
		transferredTo             pgtype.UUID
		value, estimated          *string
		rate, fee                 string
	)
	err := s.Scan(&id, &trip, &e.Title, &paidBy, &transferredTo, &value, &estimated,
		&e.Currency, &rate, &fee, &e.SpentAt, &creator, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Expense{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(trip.Bytes)
	e.PaidBy = uuid.UUID(paidBy.Bytes)
	e.CreatedBy = uuid.UUID(creator.Bytes)
	e.TransferredTo = uuidPtr(transferredTo)
	if e.Value, err = decScan(value); err != nil {
		return domain.Expense{}, err
	}
	if e.EstimatedValue, err = decScan(estimated); err != nil {
		return domain.Expense{}, err
	}
	if e.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
		return domain.Expense{}, fmt.Errorf("parse exchange_rate: %w", err)
	}
	if e.FeePercent, err = decimal.NewFromString(fee); err != nil {
		return domain.Expense{}, fmt.Errorf("parse fee_percent: %w", err)
	}
	return e, nil
}
