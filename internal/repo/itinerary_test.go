package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
)

func TestDayRepo_RenumberAndEmpty(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)

	d1, err := r.Days.Create(ctx, domain.Day{TripID: trip.ID, Number: 1})
	require.NoError(t, err)
	d2, err := r.Days.Create(ctx, domain.Day{TripID: trip.ID, Number: 2})
	require.NoError(t, err)

	// Swap numbers; the unique constraint is checked at commit.
	d1.Number, d2.Number = 2, 1
	require.NoError(t, r.Days.Renumber(ctx, []domain.Day{d1, d2}))

	days, err := r.Days.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, d2.ID, days[0].ID)

	empty, err := r.Days.IsEmpty(ctx, d1.ID)
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = r.Activities.Create(ctx, domain.Activity{TripID: trip.ID, DayID: &d1.ID, Kind: domain.KindActivity, Order: 1, Name: "Museum", Currency: "EUR"})
	require.NoError(t, err)

	empty, err = r.Days.IsEmpty(ctx, d1.ID)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestDayRepo_Delete_DetachesActivities(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)

	day, err := r.Days.Create(ctx, domain.Day{TripID: trip.ID, Number: 1})
	require.NoError(t, err)
	act, err := r.Activities.Create(ctx, domain.Activity{TripID: trip.ID, DayID: &day.ID, Kind: domain.KindSpot, Order: 1, Name: "Viewpoint", Currency: "EUR"})
	require.NoError(t, err)

	require.NoError(t, r.Days.Delete(ctx, trip.ID, day.ID))

	got, err := r.Activities.GetByID(ctx, trip.ID, act.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DayID, "activity should become unscheduled")

	unscheduled, err := r.Activities.ListByDay(ctx, trip.ID, nil)
	require.NoError(t, err)
	require.Len(t, unscheduled, 1)
	assert.Equal(t, act.ID, unscheduled[0].ID)
}

func TestActivityRepo_RoundTripsOptionalFields(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)

	lat, lng := 45.4642, 9.19
	cost := decimal.RequireFromString("120.50")
	in := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)

	created, err := r.Activities.Create(ctx, domain.Activity{
		TripID:    trip.ID,
		Kind:      domain.KindAccommodation,
		Order:     1,
		Name:      "Hotel",
		Latitude:  &lat,
		Longitude: &lng,
		Cost:      &cost,
		Currency:  "EUR",
		CheckIn:   &in,
		CheckOut:  &out,
	})
	require.NoError(t, err)

	require.NotNil(t, created.Cost)
	assert.True(t, created.Cost.Equal(cost))
	require.NotNil(t, created.Latitude)
	assert.InDelta(t, lat, *created.Latitude, 1e-9)
	require.NotNil(t, created.CheckOut)
	assert.True(t, created.CheckOut.Equal(out))

	stays, err := r.Activities.ListAccommodations(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, stays, 1)
}

func TestActivityRepo_ApplyOrder(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)
	day, err := r.Days.Create(ctx, domain.Day{TripID: trip.ID, Number: 1})
	require.NoError(t, err)

	var ids []uuid.UUID
	for i, name := range []string{"a", "b", "c"} {
		a, err := r.Activities.Create(ctx, domain.Activity{TripID: trip.ID, DayID: &day.ID, Kind: domain.KindActivity, Order: i + 1, Name: name, Currency: "EUR"})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	err = r.Activities.ApplyOrder(ctx, []domain.OrderChange{
		{ID: ids[0], DayID: &day.ID, Order: 3},
		{ID: ids[2], DayID: &day.ID, Order: 1},
	})
	require.NoError(t, err)

	got, err := r.Activities.ListByDay(ctx, trip.ID, &day.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestTransportRepo_CreateListDelete(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)

	from, err := r.Activities.Create(ctx, domain.Activity{TripID: trip.ID, Kind: domain.KindSpot, Order: 1, Name: "Milan", Currency: "EUR"})
	require.NoError(t, err)
	to, err := r.Activities.Create(ctx, domain.Activity{TripID: trip.ID, Kind: domain.KindSpot, Order: 2, Name: "Como", Currency: "EUR"})
	require.NoError(t, err)

	created, err := r.Transports.Create(ctx, domain.Transport{TripID: trip.ID, FromActivityID: from.ID, ToActivityID: to.ID, Mode: domain.ModeTrain, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTrain, created.Mode)
	assert.Nil(t, created.Cost)

	list, err := r.Transports.ListByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.Transports.Delete(ctx, trip.ID, created.ID))
	assert.ErrorIs(t, r.Transports.Delete(ctx, trip.ID, created.ID), domain.ErrNotFound)
}

func TestChecklistRepo_DuplicateTitle(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := createUser(t, r, "alice")
	trip := createTrip(t, r, owner.ID)

	item, err := r.Checklist.Create(ctx, domain.ChecklistItem{TripID: trip.ID, Title: "Passport"})
	require.NoError(t, err)

	done, err := r.Checklist.SetDone(ctx, trip.ID, item.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Done)

	_, err = r.Checklist.Create(ctx, domain.ChecklistItem{TripID: trip.ID, Title: "  passport "})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
