package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/ledger"
	"github.com/travelhub/backend/internal/metrics"
	"github.com/travelhub/backend/internal/repo"
)

// ExpenseService records a trip's expenses and derives balances and
// settlement payments from them.
type ExpenseService struct {
	repos    repo.Repos
	tx       repo.Transactor
	notifier Notifier
	now      func() time.Time
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(repos repo.Repos, tx repo.Transactor, notifier Notifier) *ExpenseService {
	return &ExpenseService{repos: repos, tx: tx, notifier: notifier, now: time.Now}
}

// List returns the trip's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Expense, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	out, err := s.repos.Expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	return nonNil(out), nil
}

// Get returns one expense with its participants.
func (s *ExpenseService) Get(ctx context.Context, actor, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Get: %w", err)
	}
	e, err := s.repos.Expenses.GetByID(ctx, tripID, expenseID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Get: %w", err)
	}
	return e, nil
}

// Create validates and records an expense, then notifies everyone who shares
// it except the creator.
func (s *ExpenseService) Create(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, e.TripID, actor)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	members, err := participantIDs(ctx, s.repos.Trips, e.TripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	e.CreatedBy = actor
	if e, err = s.normalizeExpense(e, trip, members); err != nil {
		return domain.Expense{}, err
	}

	var created domain.Expense
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Expenses.Create(ctx, e)
		return err
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	metrics.ExpenseCreated()

	for _, id := range sharers(created, members) {
		if id == actor {
			continue
		}
		s.notifier.Notify(ctx, domain.Notification{
			UserID:     id,
			Kind:       domain.NotifyExpenseAdded,
			Message:    fmt.Sprintf("New expense %q in %s", created.Title, trip.Name),
			EntityType: "expense",
			EntityID:   &created.ID,
		})
	}
	return created, nil
}

// Update overwrites an expense and its participants.
func (s *ExpenseService) Update(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, e.TripID, actor)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	members, err := participantIDs(ctx, s.repos.Trips, e.TripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}

	var updated domain.Expense
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		existing, err := r.Expenses.GetByID(ctx, e.TripID, e.ID)
		if err != nil {
			return err
		}
		e.CreatedBy = existing.CreatedBy
		if e, err = s.normalizeExpense(e, trip, members); err != nil {
			return err
		}
		updated, err = r.Expenses.Update(ctx, e)
		return err
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, actor, tripID, expenseID uuid.UUID) error {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	if err := s.repos.Expenses.Delete(ctx, tripID, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

// Balances returns every participant's net position in the trip currency.
func (s *ExpenseService) Balances(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Balance, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ExpenseService.Balances: %w", err)
	}
	balances, err := s.balances(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.Balances: %w", err)
	}
	return balances, nil
}

// Settlement returns the payments that would bring every balance to zero.
func (s *ExpenseService) Settlement(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Debt, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ExpenseService.Settlement: %w", err)
	}
	balances, err := s.balances(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.Settlement: %w", err)
	}
	return ledger.Settle(balances), nil
}

// Settle records a payment from one participant to another as a transfer in
// the trip currency.
func (s *ExpenseService) Settle(ctx context.Context, actor, tripID, from, to uuid.UUID, amount decimal.Decimal) (domain.Expense, error) {
	if !amount.IsPositive() {
		return domain.Expense{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	trip, err := tripAccess(ctx, s.repos.Trips, tripID, actor)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Settle: %w", err)
	}
	amount = amount.Round(2)
	created, err := s.Create(ctx, actor, domain.Expense{
		TripID:        tripID,
		Title:         "Settlement",
		PaidBy:        from,
		TransferredTo: &to,
		Value:         &amount,
		Currency:      trip.Currency,
		ExchangeRate:  decimal.NewFromInt(1),
	})
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Settle: %w", err)
	}
	return created, nil
}

func (s *ExpenseService) balances(ctx context.Context, tripID uuid.UUID) ([]domain.Balance, error) {
	members, err := participantIDs(ctx, s.repos.Trips, tripID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repos.Expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return ledger.Balances(members, expenses)
}

// normalizeExpense applies defaults and enforces the expense rules against
// the trip's current participants.
func (s *ExpenseService) normalizeExpense(e domain.Expense, trip domain.Trip, members []uuid.UUID) (domain.Expense, error) {
	title, err := required("title", e.Title)
	if err != nil {
		return e, err
	}
	e.Title = title

	if (e.Value == nil) == (e.EstimatedValue == nil) {
		return e, fmt.Errorf("%w: exactly one of value and estimated_value must be set", domain.ErrValidation)
	}
	if !e.Amount().IsPositive() {
		return e, fmt.Errorf("%w: value must be positive", domain.ErrValidation)
	}
	if e.Currency, err = currencyOr(e.Currency, trip.Currency); err != nil {
		return e, err
	}
	if e.ExchangeRate.IsZero() {
		e.ExchangeRate = decimal.NewFromInt(1)
	}
	if e.ExchangeRate.IsNegative() {
		return e, fmt.Errorf("%w: exchange_rate must be positive", domain.ErrValidation)
	}
	if e.FeePercent.IsNegative() {
		return e, fmt.Errorf("%w: fee_percent must not be negative", domain.ErrValidation)
	}
	if e.SpentAt.IsZero() {
		e.SpentAt = s.now().UTC()
	}

	if !slices.Contains(members, e.PaidBy) {
		return e, fmt.Errorf("%w: payer is not a participant of this trip", domain.ErrValidation)
	}

	if e.IsTransfer() {
		switch {
		case *e.TransferredTo == e.PaidBy:
			return e, fmt.Errorf("%w: a transfer needs a recipient other than the payer", domain.ErrValidation)
		case !slices.Contains(members, *e.TransferredTo):
			return e, fmt.Errorf("%w: recipient is not a participant of this trip", domain.ErrValidation)
		case len(e.Participants) > 0:
			return e, fmt.Errorf("%w: a transfer has no participants", domain.ErrValidation)
		case e.EstimatedValue != nil:
			return e, fmt.Errorf("%w: a transfer cannot be estimated", domain.ErrValidation)
		}
		e.FeePercent = decimal.Zero
		e.Participants = []domain.ExpenseParticipant{}
		return e, nil
	}

	for _, p := range e.Participants {
		if !slices.Contains(members, p.UserID) {
			return e, fmt.Errorf("%w: user %s is not a participant of this trip", domain.ErrValidation, p.UserID)
		}
	}
	if err := ledger.ValidateShares(e.Amount(), e.Participants); err != nil {
		if errors.Is(err, ledger.ErrInvalidShares) {
			return e, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return e, err
	}
	if e.Participants == nil {
		e.Participants = []domain.ExpenseParticipant{}
	}
	return e, nil
}

// sharers returns who bears an expense: the recipient of a transfer, the
// listed participants, or every trip member when none are listed.
func sharers(e domain.Expense, members []uuid.UUID) []uuid.UUID {
	if e.IsTransfer() {
		return []uuid.UUID{*e.TransferredTo}
	}
	if len(e.Participants) == 0 {
		return members
	}
	ids := make([]uuid.UUID, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = p.UserID
	}
	return ids
}
