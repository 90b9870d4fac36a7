// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/travelhub/backend/internal/domain"
)

// NotificationEvent is the wire format of a published notification.
type NotificationEvent struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes notification events to one topic, keyed by
// recipient so a user's events stay ordered within a partition.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher creates a synchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}}
}

// PublishNotification serialises n and writes it.
func (p *KafkaPublisher) PublishNotification(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(NotificationEvent{
		ID:         n.ID,
		UserID:     n.UserID,
		Kind:       string(n.Kind),
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		CreatedAt:  n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("events.KafkaPublisher.PublishNotification: marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.UserID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("notification." + string(n.Kind))},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events.KafkaPublisher.PublishNotification: %w", err)
	}
	return nil
}

// Close flushes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

// PublishNotification does nothing.
func (Nop) PublishNotification(context.Context, domain.Notification) error { return nil }
