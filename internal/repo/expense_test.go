package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
)

func TestExpenseRepo_CreateGetUpdate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")
	bob := createUser(t, r, "bob")
	trip := createTrip(t, r, alice.ID)

	value := decimal.RequireFromString("90.00")
	share := decimal.RequireFromString("25")
	created, err := r.Expenses.Create(ctx, domain.Expense{
		TripID:       trip.ID,
		Title:        "Dinner",
		PaidBy:       alice.ID,
		Value:        &value,
		Currency:     "EUR",
		ExchangeRate: decimal.NewFromInt(1),
		FeePercent:   decimal.Zero,
		SpentAt:      time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
		CreatedBy:    alice.ID,
		Participants: []domain.ExpenseParticipant{
			{UserID: alice.ID, Share: &share},
			{UserID: bob.ID},
		},
	})
	require.NoError(t, err)

	got, err := r.Expenses.GetByID(ctx, trip.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.True(t, got.Value.Equal(value))
	assert.Nil(t, got.EstimatedValue)
	assert.True(t, got.ExchangeRate.Equal(decimal.NewFromInt(1)))
	require.Len(t, got.Participants, 2)
	assert.Equal(t, alice.ID, got.Participants[0].UserID, "participant order is preserved")
	require.NotNil(t, got.Participants[0].Share)
	assert.True(t, got.Participants[0].Share.Equal(share))
	assert.Nil(t, got.Participants[1].Share)

	got.Title = "Late dinner"
	got.Participants = []domain.ExpenseParticipant{{UserID: bob.ID}}
	updated, err := r.Expenses.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Late dinner", updated.Title)

	list, err := r.Expenses.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Participants, 1)
	assert.Equal(t, bob.ID, list[0].Participants[0].UserID)

	require.NoError(t, r.Expenses.Delete(ctx, trip.ID, created.ID))
	_, err = r.Expenses.GetByID(ctx, trip.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseRepo_Transfer(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")
	bob := createUser(t, r, "bob")
	trip := createTrip(t, r, alice.ID)

	value := decimal.RequireFromString("12.34")
	created, err := r.Expenses.Create(ctx, domain.Expense{
		TripID:        trip.ID,
		Title:         "Settle up",
		PaidBy:        bob.ID,
		TransferredTo: &alice.ID,
		Value:         &value,
		Currency:      "EUR",
		ExchangeRate:  decimal.NewFromInt(1),
		SpentAt:       time.Now(),
		CreatedBy:     bob.ID,
	})
	require.NoError(t, err)

	assert.True(t, created.IsTransfer())
	assert.Empty(t, created.Participants)
	assert.NotNil(t, created.Participants, "participants are never nil")
}
