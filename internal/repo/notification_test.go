package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
)

func TestNotificationRepo_ReadFlags(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := createUser(t, r, "alice")
	bob := createUser(t, r, "bob")

	var created []domain.Notification
	for _, msg := range []string{"one", "two", "three"} {
		n, err := r.Notifications.Create(ctx, domain.Notification{UserID: alice.ID, Kind: domain.NotifyTripInvite, Message: msg})
		require.NoError(t, err)
		created = append(created, n)
	}

	count, err := r.Notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = r.Notifications.MarkRead(ctx, bob.ID, created[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "foreign notifications look missing")

	read, err := r.Notifications.MarkRead(ctx, alice.ID, created[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, total, err := r.Notifications.List(ctx, alice.ID, true, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, unread, 2)

	changed, err := r.Notifications.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	count, err = r.Notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
