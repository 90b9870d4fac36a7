package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/ledger"
	"github.com/travelhub/backend/internal/repo"
)

// ExportService assembles a flat export of a trip's expenses.
type ExportService struct {
	trips    repo.TripRepo
	users    repo.UserRepo
	expenses repo.ExpenseRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, users repo.UserRepo, expenses repo.ExpenseRepo) *ExportService {
	return &ExportService{trips: trips, users: users, expenses: expenses}
}

// Export returns one ExpenseExportRow per expense participant. Transfers
// contribute a single row for the recipient. Expenses without listed
// participants are split across the whole trip.
func (s *ExportService) Export(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ExpenseExportRow, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	parts, err := s.trips.ListParticipants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	names := make(map[uuid.UUID]string, len(parts))
	members := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		names[p.UserID] = p.UserName
		members[i] = p.UserID
	}
	// Former participants keep their rows; look their names up once.
	name := func(id uuid.UUID) (string, error) {
		if n, ok := names[id]; ok {
			return n, nil
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		names[id] = u.UserName
		return u.UserName, nil
	}

	rows := make([]domain.ExpenseExportRow, 0, len(expenses))
	for _, e := range expenses {
		payer, err := name(e.PaidBy)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		base := domain.ExpenseExportRow{
			ExpenseID:    e.ID.String(),
			Title:        e.Title,
			SpentAt:      e.SpentAt.Format("2006-01-02"),
			PaidBy:       payer,
			Currency:     e.Currency,
			Value:        e.Amount().StringFixed(2),
			Estimated:    e.IsEstimated(),
			ExchangeRate: e.Rate().String(),
			FeePercent:   e.FeePercent.String(),
			Transfer:     e.IsTransfer(),
		}

		if e.IsTransfer() {
			to, err := name(*e.TransferredTo)
			if err != nil {
				return nil, fmt.Errorf("service.ExportService.Export: %w", err)
			}
			base.ParticipantName = to
			base.Share = ledger.Gross(e).StringFixed(2)
			rows = append(rows, base)
			continue
		}

		shares, err := ledger.Shares(e, members)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: expense %s: %w", e.ID, err)
		}
		for _, id := range sharers(e, members) {
			n, err := name(id)
			if err != nil {
				return nil, fmt.Errorf("service.ExportService.Export: %w", err)
			}
			row := base
			row.ParticipantName = n
			row.Share = shares[id].StringFixed(2)
			rows = append(rows, row)
		}
	}
	return rows, nil
}
