package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_PublishNotification(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	trip := uuid.New()
	n := domain.Notification{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Kind:       domain.NotifyTripInvite,
		Message:    "You were added to Lisbon",
		EntityType: "trip",
		EntityID:   &trip,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.PublishNotification(context.Background(), n))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, n.UserID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "notification.trip_invite", string(msg.Headers[0].Value))

	var got NotificationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "trip_invite", got.Kind)
	require.NotNil(t, got.EntityID)
	assert.Equal(t, trip, *got.EntityID)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}

	err := p.PublishNotification(context.Background(), domain.Notification{UserID: uuid.New()})

	assert.ErrorContains(t, err, "broker down")
}
