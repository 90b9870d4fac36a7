package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a payment made by one trip participant.
//
// Exactly one of Value and EstimatedValue is set. ExchangeRate converts the
// expense currency into the trip currency. FeePercent is a surcharge (card or
// exchange fee) applied on top of the converted value; estimated expenses
// never carry fees.
//
// When TransferredTo is set the expense is a transfer: money moved directly
// from PaidBy to TransferredTo, with no participants and no fees.
type Expense struct {
	ID             uuid.UUID
	TripID         uuid.UUID
	Title          string
	PaidBy         uuid.UUID
	TransferredTo  *uuid.UUID
	Value          *decimal.Decimal
	EstimatedValue *decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal
	FeePercent     decimal.Decimal
	SpentAt        time.Time
	CreatedBy      uuid.UUID
	Participants   []ExpenseParticipant
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExpenseParticipant is a person sharing an expense. Share is a percentage of
// the expense, ActualShareValue an absolute amount in the expense currency.
// Both nil means "split the remainder equally".
type ExpenseParticipant struct {
	UserID           uuid.UUID
	Share            *decimal.Decimal
	ActualShareValue *decimal.Decimal
}

// IsTransfer reports whether e moves money between two people.
func (e Expense) IsTransfer() bool { return e.TransferredTo != nil }

// IsEstimated reports whether e carries only an estimate.
func (e Expense) IsEstimated() bool { return e.Value == nil && e.EstimatedValue != nil }

// Amount returns the value in the expense currency: the real value when set,
// otherwise the estimate, otherwise zero.
func (e Expense) Amount() decimal.Decimal {
	switch {
	case e.Value != nil:
		return *e.Value
	case e.EstimatedValue != nil:
		return *e.EstimatedValue
	}
	return decimal.Zero
}

// Rate returns the exchange rate, treating zero as 1.
func (e Expense) Rate() decimal.Decimal {
	if e.ExchangeRate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return e.ExchangeRate
}

// Balance is a participant's net position in the trip currency. Positive
// means the participant is owed money.
type Balance struct {
	UserID uuid.UUID
	Amount decimal.Decimal
}

// Debt is one settlement payment: From owes To the Amount.
type Debt struct {
	From   uuid.UUID
	To     uuid.UUID
	Amount decimal.Decimal
}
