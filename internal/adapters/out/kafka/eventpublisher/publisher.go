// Package eventpublisher emits queue lifecycle events to Kafka for analytics.
package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"matching/internal/core/domain/model/kernel"

	"github.com/jonboulle/clockwork"
	"github.com/segmentio/kafka-go"
)

const (
	EventExpired = "expired"
	EventMatched = "matched"
)

// DefaultTimeout bounds one publish when no timeout is configured.
const DefaultTimeout = 2 * time.Second

var ErrBrokersAreRequired = errors.New("at least one kafka broker is required")

// Event is the JSON payload of every message. Messages are keyed by requester
// id so one requester's events stay ordered within a partition.
type Event struct {
	Type          string    `json:"type"`
	RequesterID   string    `json:"requesterId"`
	CourierID     string    `json:"courierId,omitempty"`
	CourierRating *float64  `json:"courierRating,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.Notifier by writing events to a topic.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
	clock   clockwork.Clock
}

// NewPublisher creates a synchronous writer that waits for all replicas.
// Every publish gives up after timeout (DefaultTimeout when <= 0).
func NewPublisher(brokers []string, topic string, timeout time.Duration, clock clockwork.Clock) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, ErrBrokersAreRequired
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}, timeout, clock), nil
}

func newPublisher(writer messageWriter, timeout time.Duration, clock clockwork.Clock) *Publisher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Publisher{writer: writer, timeout: timeout, clock: clock}
}

func (p *Publisher) NotifyExpired(ctx context.Context, requesterID kernel.UUID) error {
	return p.publish(ctx, Event{
		Type:        EventExpired,
		RequesterID: requesterID.String(),
		OccurredAt:  p.clock.Now().UTC(),
	})
}

func (p *Publisher) NotifyMatched(ctx context.Context, requesterID, courierID kernel.UUID, courierRating float64) error {
	return p.publish(ctx, Event{
		Type:          EventMatched,
		RequesterID:   requesterID.String(),
		CourierID:     courierID.String(),
		CourierRating: &courierRating,
		OccurredAt:    p.clock.Now().UTC(),
	})
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RequesterID),
		Value: payload,
		Time:  event.OccurredAt,
	}); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	return nil
}
