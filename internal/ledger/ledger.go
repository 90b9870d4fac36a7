// Package ledger computes per-participant balances and the settlement debts
// for a trip's expenses. Everything here is pure arithmetic over values
// already loaded by the service layer; all money is shopspring/decimal.
package ledger

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
)

// Cent is the smallest amount a debt is reported for.
var Cent = decimal.New(1, -2)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// equalSplitPlaces is the precision of equal splits before the last
// participant absorbs the remainder.
const equalSplitPlaces = 8

// ErrInvalidShares is wrapped by every share-rule violation.
var ErrInvalidShares = errors.New("invalid expense shares")

// Gross returns what the payer actually spent in the trip currency:
// value × rate, plus the percentage fee unless the expense is estimated or a
// transfer.
func Gross(e domain.Expense) decimal.Decimal {
	return e.Amount().Mul(factor(e))
}

// factor converts an amount in the expense currency into the trip currency
// including fees.
func factor(e domain.Expense) decimal.Decimal {
	f := e.Rate()
	if !e.IsEstimated() && !e.IsTransfer() && e.FeePercent.IsPositive() {
		f = f.Mul(one.Add(e.FeePercent.Div(hundred)))
	}
	return f
}

// Shares returns how much of Gross(e) each participant bears, in the trip
// currency. When e lists no participants, everyone in tripParticipants
// shares equally. The shares always sum exactly to Gross(e).
func Shares(e domain.Expense, tripParticipants []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	participants := e.Participants
	if len(participants) == 0 {
		for _, id := range tripParticipants {
			participants = append(participants, domain.ExpenseParticipant{UserID: id})
		}
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: expense has no participants", ErrInvalidShares)
	}
	if err := ValidateShares(e.Amount(), participants); err != nil {
		return nil, err
	}

	total := Gross(e)
	f := factor(e)
	out := make(map[uuid.UUID]decimal.Decimal, len(participants))
	assigned := decimal.Zero
	var rest []uuid.UUID
	for _, p := range participants {
		var s decimal.Decimal
		switch {
		case p.Share != nil:
			s = total.Mul(*p.Share).Div(hundred)
		case p.ActualShareValue != nil:
			s = p.ActualShareValue.Mul(f)
		default:
			rest = append(rest, p.UserID)
			continue
		}
		out[p.UserID] = out[p.UserID].Add(s)
		assigned = assigned.Add(s)
	}

	remainder := total.Sub(assigned)
	if len(rest) == 0 {
		// Explicit shares are validated to cover the total; fold rounding
		// dust from percentage arithmetic into the last participant.
		last := participants[len(participants)-1].UserID
		out[last] = out[last].Add(remainder)
		return out, nil
	}
	each := remainder.DivRound(decimal.NewFromInt(int64(len(rest))), equalSplitPlaces)
	for i, id := range rest {
		s := each
		if i == len(rest)-1 {
			s = remainder.Sub(each.Mul(decimal.NewFromInt(int64(len(rest) - 1))))
		}
		out[id] = out[id].Add(s)
	}
	return out, nil
}

// ValidateShares checks the share rules for an expense of the given amount
// (expense currency):
//   - a participant appears at most once;
//   - percentage and amount shares are not mixed, and none is negative;
//   - percentages sum to at most 100, amounts to at most amount;
//   - when every participant has an explicit share they cover the whole
//     expense.
func ValidateShares(amount decimal.Decimal, participants []domain.ExpenseParticipant) error {
	seen := make(map[uuid.UUID]bool, len(participants))
	var pct, abs decimal.Decimal
	var nPct, nAbs int
	for _, p := range participants {
		if seen[p.UserID] {
			return fmt.Errorf("%w: participant %s listed twice", ErrInvalidShares, p.UserID)
		}
		seen[p.UserID] = true
		if p.Share != nil && p.ActualShareValue != nil {
			return fmt.Errorf("%w: participant %s has both a percentage and an amount", ErrInvalidShares, p.UserID)
		}
		if p.Share != nil {
			if p.Share.IsNegative() {
				return fmt.Errorf("%w: percentage share must not be negative", ErrInvalidShares)
			}
			pct = pct.Add(*p.Share)
			nPct++
		}
		if p.ActualShareValue != nil {
			if p.ActualShareValue.IsNegative() {
				return fmt.Errorf("%w: amount share must not be negative", ErrInvalidShares)
			}
			abs = abs.Add(*p.ActualShareValue)
			nAbs++
		}
	}
	if nPct > 0 && nAbs > 0 {
		return fmt.Errorf("%w: percentage and amount shares cannot be mixed", ErrInvalidShares)
	}
	if pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage shares exceed 100", ErrInvalidShares)
	}
	if abs.GreaterThan(amount) {
		return fmt.Errorf("%w: amount shares exceed the expense value", ErrInvalidShares)
	}
	allExplicit := nPct+nAbs == len(participants)
	if allExplicit && nPct > 0 && !pct.Equal(hundred) {
		return fmt.Errorf("%w: percentage shares must add up to 100", ErrInvalidShares)
	}
	if allExplicit && nAbs > 0 && !abs.Equal(amount) {
		return fmt.Errorf("%w: amount shares must add up to the expense value", ErrInvalidShares)
	}
	return nil
}

// Balances reduces expenses into net balances for every trip participant.
// Payers gain Gross(e) and participants lose their share; transfers move the
// converted value from recipient to payer without fees. Every trip
// participant is present in the result, which is sorted by amount descending
// then user ID and rounded to cents so that the amounts still sum to zero.
func Balances(tripParticipants []uuid.UUID, expenses []domain.Expense) ([]domain.Balance, error) {
	acc := make(map[uuid.UUID]decimal.Decimal, len(tripParticipants))
	for _, id := range tripParticipants {
		acc[id] = decimal.Zero
	}
	for _, e := range expenses {
		gross := Gross(e)
		acc[e.PaidBy] = acc[e.PaidBy].Add(gross)
		if e.IsTransfer() {
			acc[*e.TransferredTo] = acc[*e.TransferredTo].Sub(gross)
			continue
		}
		shares, err := Shares(e, tripParticipants)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		for id, s := range shares {
			acc[id] = acc[id].Sub(s)
		}
	}

	out := roundToCents(acc)
	slices.SortFunc(out, func(a, b domain.Balance) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID.String(), b.UserID.String())
	})
	return out, nil
}

// roundToCents rounds every balance down to the cent and hands the missing
// cents, one each, to the balances that lost the most in rounding (ties by
// user ID). The rounded balances sum to the exact total rounded to cents,
// which is zero for a consistent ledger.
func roundToCents(acc map[uuid.UUID]decimal.Decimal) []domain.Balance {
	type part struct {
		id   uuid.UUID
		down decimal.Decimal
		lost decimal.Decimal
	}
	parts := make([]part, 0, len(acc))
	exact, floored := decimal.Zero, decimal.Zero
	for id, amt := range acc {
		down := amt.RoundFloor(2)
		parts = append(parts, part{id: id, down: down, lost: amt.Sub(down)})
		exact = exact.Add(amt)
		floored = floored.Add(down)
	}
	missing := exact.Round(2).Sub(floored).Div(Cent).IntPart()
	slices.SortFunc(parts, func(a, b part) int {
		if c := b.lost.Cmp(a.lost); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	out := make([]domain.Balance, len(parts))
	for i, p := range parts {
		amt := p.down
		if int64(i) < missing {
			amt = amt.Add(Cent)
		}
		out[i] = domain.Balance{UserID: p.id, Amount: amt}
	}
	return out
}

// Settle turns balances into a short list of payments. Creditors and debtors
// are each sorted by magnitude descending (ties by user ID) and the largest
// debtor pays the largest creditor min(owed, due) until one side is exhausted.
// Amounts below one cent are ignored.
func Settle(balances []domain.Balance) []domain.Debt {
	type pos struct {
		id  uuid.UUID
		amt decimal.Decimal
	}
	var creditors, debtors []pos
	for _, b := range balances {
		switch {
		case b.Amount.GreaterThanOrEqual(Cent):
			creditors = append(creditors, pos{b.UserID, b.Amount})
		case b.Amount.LessThanOrEqual(Cent.Neg()):
			debtors = append(debtors, pos{b.UserID, b.Amount.Neg()})
		}
	}
	byMagnitude := func(a, b pos) int {
		if c := b.amt.Cmp(a.amt); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	}
	slices.SortFunc(creditors, byMagnitude)
	slices.SortFunc(debtors, byMagnitude)

	debts := []domain.Debt{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		pay := decimal.Min(creditors[i].amt, debtors[j].amt)
		if pay.GreaterThanOrEqual(Cent) {
			debts = append(debts, domain.Debt{From: debtors[j].id, To: creditors[i].id, Amount: pay.Round(2)})
		}
		creditors[i].amt = creditors[i].amt.Sub(pay)
		debtors[j].amt = debtors[j].amt.Sub(pay)
		if creditors[i].amt.LessThan(Cent) {
			i++
		}
		if debtors[j].amt.LessThan(Cent) {
			j++
		}
	}
	return debts
}
