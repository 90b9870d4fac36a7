package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
	"github.com/travelhub/backend/testutil"
)

func TestTransactor_RollsBackOnError(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	outer, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = outer.Rollback(ctx) })

	r := repo.New(outer)
	alice := createUser(t, r, "alice")

	boom := errors.New("boom")
	var created domain.Trip
	err = repo.NewTransactor(outer).WithinTx(ctx, func(tx repo.Repos) error {
		trip, err := tx.Trips.Create(ctx, tripFixture(alice.ID))
		if err != nil {
			return err
		}
		created = trip
		return boom
	})
	assert.ErrorIs(t, err, boom, "fn errors are returned unchanged")

	_, err = r.Trips.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip insert should be rolled back")
}
