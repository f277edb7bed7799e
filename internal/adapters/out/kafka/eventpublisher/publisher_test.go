package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"matching/internal/core/domain/model/kernel"

	"github.com/jonboulle/clockwork"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
	// hang makes WriteMessages wait for the context like an unresponsive broker
	hang bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func decode(t *testing.T, msg kafka.Message) Event {
	t.Helper()
	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	return event
}

func TestPublisher_Expired(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newPublisher(writer, time.Second, clockwork.NewFakeClockAt(now))
	requester := kernel.NewUUID()

	require.NoError(t, publisher.NotifyExpired(t.Context(), requester))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, requester.String(), string(writer.messages[0].Key))
	event := decode(t, writer.messages[0])
	assert.Equal(t, EventExpired, event.Type)
	assert.Equal(t, requester.String(), event.RequesterID)
	assert.Empty(t, event.CourierID)
	assert.Nil(t, event.CourierRating)
	assert.True(t, event.OccurredAt.Equal(now))
}

func TestPublisher_Matched(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newPublisher(writer, time.Second, clockwork.NewFakeClockAt(now))
	requester, courierID := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, publisher.NotifyMatched(t.Context(), requester, courierID, 4.8))

	require.Len(t, writer.messages, 1)
	event := decode(t, writer.messages[0])
	assert.Equal(t, EventMatched, event.Type)
	assert.Equal(t, courierID.String(), event.CourierID)
	require.NotNil(t, event.CourierRating)
	assert.InDelta(t, 4.8, *event.CourierRating, 1e-9)
}

func TestPublisher_WriteFailure(t *testing.T) {
	writer := &fakeWriter{err: kafka.LeaderNotAvailable}
	publisher := newPublisher(writer, time.Second, clockwork.NewFakeClockAt(now))

	err := publisher.NotifyExpired(t.Context(), kernel.NewUUID())

	require.Error(t, err)
	assert.True(t, errors.Is(err, kafka.LeaderNotAvailable))
}

func TestPublisher_UnresponsiveBrokerIsBoundedByTimeout(t *testing.T) {
	writer := &fakeWriter{hang: true}
	publisher := newPublisher(writer, 50*time.Millisecond, clockwork.NewRealClock())

	started := time.Now()
	err := publisher.NotifyExpired(context.WithoutCancel(t.Context()), kernel.NewUUID())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), time.Second)
}

func TestPublisher_DefaultTimeout(t *testing.T) {
	publisher := newPublisher(&fakeWriter{}, 0, clockwork.NewRealClock())

	assert.Equal(t, DefaultTimeout, publisher.timeout)
}

func TestPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newPublisher(writer, time.Second, clockwork.NewRealClock())

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(nil, "courier-queue-events", time.Second, clockwork.NewRealClock())

	assert.ErrorIs(t, err, ErrBrokersAreRequired)
}
