package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
)

// ExpenseRequest is the body of POST /expenses and PUT /expenses/{expenseID}.
// Money fields accept JSON numbers or decimal strings.
type ExpenseRequest struct {
	Title          string                      `json:"title"`
	PaidBy         uuid.UUID                   `json:"paid_by"`
	TransferredTo  *uuid.UUID                  `json:"transferred_to,omitempty"`
	Value          *decimal.Decimal            `json:"value,omitempty"`
	EstimatedValue *decimal.Decimal            `json:"estimated_value,omitempty"`
	Currency       string                      `json:"currency"`
	ExchangeRate   decimal.Decimal             `json:"exchange_rate"`
	FeePercent     decimal.Decimal             `json:"fee_percent"`
	SpentAt        *time.Time                  `json:"spent_at,omitempty"`
	Participants   []ExpenseParticipantPayload `json:"participants"`
}

// ExpenseParticipantPayload is one sharer of an expense. Share is a
// percentage, ActualShareValue an amount in the expense currency; both
// omitted means an equal split of the remainder.
type ExpenseParticipantPayload struct {
	UserID           uuid.UUID        `json:"user_id"`
	Share            *decimal.Decimal `json:"share,omitempty"`
	ActualShareValue *decimal.Decimal `json:"actual_share_value,omitempty"`
}

// ExpenseResponse is the API view of an expense or transfer. Money fields are
// decimal strings.
type ExpenseResponse struct {
	ID             uuid.UUID                   `json:"id"`
	TripID         uuid.UUID                   `json:"trip_id"`
	Title          string                      `json:"title"`
	PaidBy         uuid.UUID                   `json:"paid_by"`
	TransferredTo  *uuid.UUID                  `json:"transferred_to"`
	Value          *decimal.Decimal            `json:"value"`
	EstimatedValue *decimal.Decimal            `json:"estimated_value"`
	Currency       string                      `json:"currency"`
	ExchangeRate   decimal.Decimal             `json:"exchange_rate"`
	FeePercent     decimal.Decimal             `json:"fee_percent"`
	SpentAt        time.Time                   `json:"spent_at"`
	CreatedBy      uuid.UUID                   `json:"created_by"`
	Participants   []ExpenseParticipantPayload `json:"participants"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// BalanceResponse is a participant's net position in the trip currency.
// Positive means the participant is owed money.
type BalanceResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Amount string    `json:"amount"`
}

// DebtResponse is one settlement payment.
type DebtResponse struct {
	From   uuid.UUID `json:"from"`
	To     uuid.UUID `json:"to"`
	Amount string    `json:"amount"`
}

// SettleRequest is the body of POST /settle.
type SettleRequest struct {
	From   uuid.UUID       `json:"from"`
	To     uuid.UUID       `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// ListExpenses handles GET /api/trips/{tripID}/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	expenses, err := s.svc.Expenses.List(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(expenses, expenseToResponse))
}

// GetExpense handles GET /api/trips/{tripID}/expenses/{expenseID}.
func (s *Server) GetExpense(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	e, err := s.svc.Expenses.Get(r.Context(), me, tripID, expenseID)
	if err != nil {
		s.writeError(w, r, err, "expense")
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(e))
}

// CreateExpense handles POST /api/trips/{tripID}/expenses.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body ExpenseRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.svc.Expenses.Create(r.Context(), me, requestToExpense(uuid.Nil, tripID, body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// UpdateExpense handles PUT /api/trips/{tripID}/expenses/{expenseID}.
func (s *Server) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body ExpenseRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	updated, err := s.svc.Expenses.Update(r.Context(), me, requestToExpense(expenseID, tripID, body))
	if err != nil {
		s.writeError(w, r, err, "expense")
		return
	}
	writeJSON(w, http.StatusOK, expenseToResponse(updated))
}

// DeleteExpense handles DELETE /api/trips/{tripID}/expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Expenses.Delete(r.Context(), me, tripID, expenseID); err != nil {
		s.writeError(w, r, err, "expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalances handles GET /api/trips/{tripID}/balances.
func (s *Server) GetBalances(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	balances, err := s.svc.Expenses.Balances(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(balances, func(b domain.Balance) BalanceResponse {
		return BalanceResponse{UserID: b.UserID, Amount: b.Amount.StringFixed(2)}
	}))
}

// GetSettlement handles GET /api/trips/{tripID}/settlement: the payments
// that clear every balance.
func (s *Server) GetSettlement(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	debts, err := s.svc.Expenses.Settlement(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, newList(debts, func(d domain.Debt) DebtResponse {
		return DebtResponse{From: d.From, To: d.To, Amount: d.Amount.StringFixed(2)}
	}))
}

// Settle handles POST /api/trips/{tripID}/settle. It records a transfer from
// debtor to creditor and returns it.
func (s *Server) Settle(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body SettleRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	transfer, err := s.svc.Expenses.Settle(r.Context(), me, tripID, body.From, body.To, body.Amount)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, expenseToResponse(transfer))
}

// --- mapping helpers --------------------------------------------------------

func requestToExpense(id, tripID uuid.UUID, body ExpenseRequest) domain.Expense {
	e := domain.Expense{
		ID:             id,
		TripID:         tripID,
		Title:          body.Title,
		PaidBy:         body.PaidBy,
		TransferredTo:  body.TransferredTo,
		Value:          body.Value,
		EstimatedValue: body.EstimatedValue,
		Currency:       body.Currency,
		ExchangeRate:   body.ExchangeRate,
		FeePercent:     body.FeePercent,
		Participants:   make([]domain.ExpenseParticipant, len(body.Participants)),
	}
	if body.SpentAt != nil {
		e.SpentAt = *body.SpentAt
	}
	for i, p := range body.Participants {
		e.Participants[i] = domain.ExpenseParticipant{UserID: p.UserID, Share: p.Share, ActualShareValue: p.ActualShareValue}
	}
	return e
}

func expenseToResponse(e domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:             e.ID,
		TripID:         e.TripID,
		Title:          e.Title,
		PaidBy:         e.PaidBy,
		TransferredTo:  e.TransferredTo,
		Value:          e.Value,
		EstimatedValue: e.EstimatedValue,
		Currency:       e.Currency,
		ExchangeRate:   e.Rate(),
		FeePercent:     e.FeePercent,
		SpentAt:        e.SpentAt,
		CreatedBy:      e.CreatedBy,
		Participants:   make([]ExpenseParticipantPayload, len(e.Participants)),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	for i, p := range e.Participants {
		resp.Participants[i] = ExpenseParticipantPayload{UserID: p.UserID, Share: p.Share, ActualShareValue: p.ActualShareValue}
	}
	return resp
}
