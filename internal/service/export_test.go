package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/service"
)

// ---- helpers ---------------------------------------------------------------

type exportFixture struct {
	alice, bob uuid.UUID
	trip       domain.Trip
	trips      *mockTripRepo
	users      *mockUserRepo
}

func newExportFixture() exportFixture {
	f := exportFixture{alice: uuid.New(), bob: uuid.New()}
	f.trip = domain.Trip{ID: uuid.New(), OwnerID: f.alice, Currency: "EUR"}
	f.trips = memberTrips(f.trip, f.alice, f.bob)
	f.trips.listParticipants = func(context.Context, uuid.UUID) ([]domain.TripParticipant, error) {
		return []domain.TripParticipant{
			{UserID: f.alice, UserName: "alice"},
			{UserID: f.bob, UserName: "bob"},
		}, nil
	}
	f.users = &mockUserRepo{}
	return f
}

func (f exportFixture) service(expenses []domain.Expense) *service.ExportService {
	return service.NewExportService(f.trips, f.users, &mockExpenseRepo{
		listByTrip: func(context.Context, uuid.UUID) ([]domain.Expense, error) { return expenses, nil },
	})
}

// ---- Export ----------------------------------------------------------------

func TestExportService_Export_RowPerParticipant(t *testing.T) {
	f := newExportFixture()
	e := domain.Expense{
		ID: uuid.New(), TripID: f.trip.ID, Title: "Hotel", PaidBy: f.alice,
		Value: dec("100"), Currency: "USD", ExchangeRate: decimal.RequireFromString("0.9"),
		FeePercent: decimal.NewFromInt(2),
		SpentAt:    time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		Participants: []domain.ExpenseParticipant{
			{UserID: f.alice, Share: dec("25")},
			{UserID: f.bob, Share: dec("75")},
		},
	}

	rows, err := f.service([]domain.Expense{e}).Export(context.Background(), f.alice, f.trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Hotel", rows[0].Title)
	assert.Equal(t, "2025-06-02", rows[0].SpentAt)
	assert.Equal(t, "alice", rows[0].PaidBy)
	assert.Equal(t, "USD", rows[0].Currency)
	assert.Equal(t, "100.00", rows[0].Value)
	assert.Equal(t, "alice", rows[0].ParticipantName)
	// 100 × 0.9 × 1.02 = 91.80
	assert.Equal(t, "22.95", rows[0].Share)
	assert.Equal(t, "bob", rows[1].ParticipantName)
	assert.Equal(t, "68.85", rows[1].Share)
}

func TestExportService_Export_NoParticipantsSplitsTrip(t *testing.T) {
	f := newExportFixture()
	e := domain.Expense{ID: uuid.New(), Title: "Fuel", PaidBy: f.bob, Value: dec("50"), Currency: "EUR"}

	rows, err := f.service([]domain.Expense{e}).Export(context.Background(), f.bob, f.trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "25.00", rows[0].Share)
	assert.Equal(t, "25.00", rows[1].Share)
}

func TestExportService_Export_Transfer(t *testing.T) {
	f := newExportFixture()
	e := domain.Expense{
		ID: uuid.New(), Title: "Settlement", PaidBy: f.bob, TransferredTo: &f.alice,
		Value: dec("40"), Currency: "EUR",
	}

	rows, err := f.service([]domain.Expense{e}).Export(context.Background(), f.alice, f.trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Transfer)
	assert.Equal(t, "alice", rows[0].ParticipantName)
	assert.Equal(t, "40.00", rows[0].Share)
}

func TestExportService_Export_FormerParticipant(t *testing.T) {
	f := newExportFixture()
	gone := uuid.New()
	lookups := 0
	f.users.getByID = func(_ context.Context, id uuid.UUID) (domain.User, error) {
		lookups++
		return domain.User{ID: id, UserName: "carol"}, nil
	}
	expenses := []domain.Expense{
		{ID: uuid.New(), Title: "A", PaidBy: gone, Value: dec("10"), Participants: []domain.ExpenseParticipant{{UserID: gone}}},
		{ID: uuid.New(), Title: "B", PaidBy: gone, Value: dec("10"), Participants: []domain.ExpenseParticipant{{UserID: f.alice}}},
	}

	rows, err := f.service(expenses).Export(context.Background(), f.alice, f.trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "carol", rows[0].PaidBy)
	assert.Equal(t, 1, lookups, "names are looked up once")
}

func TestExportService_Export_NoExpenses(t *testing.T) {
	f := newExportFixture()

	rows, err := f.service(nil).Export(context.Background(), f.alice, f.trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_NotParticipant(t *testing.T) {
	f := newExportFixture()

	_, err := f.service(nil).Export(context.Background(), uuid.New(), f.trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
