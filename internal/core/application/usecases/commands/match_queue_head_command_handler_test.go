package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"matching/internal/core/application/usecases/commands"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
	"matching/internal/observability"
	"matching/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const matcherMaxWait = 180 * time.Second

type matcherFixture struct {
	ctx         context.Context
	clock       *clockwork.FakeClock
	factory     *MockUoWFactory
	uow         *MockUoW
	queueRepo   *MockQueueRepository
	courierRepo *MockCourierRepository
	notifier    *MockNotifier
	handler     commands.MatchQueueHeadCommandHandler
}

func newMatcherFixture(t *testing.T, pollBackoff time.Duration) *matcherFixture {
	t.Helper()
	f := &matcherFixture{
		ctx:         t.Context(),
		clock:       clockwork.NewFakeClockAt(t0),
		factory:     new(MockUoWFactory),
		uow:         new(MockUoW),
		queueRepo:   new(MockQueueRepository),
		courierRepo: new(MockCourierRepository),
		notifier:    new(MockNotifier),
	}
	f.handler = commands.NewMatchQueueHeadCommandHandler(
		f.factory, f.notifier, f.clock, matcherMaxWait, pollBackoff, discardLogger())
	return f
}

// expectAttempts registers the unit of work calls of the initial read plus
// the given number of courier search attempts.
func (f *matcherFixture) expectAttempts(ctx any, attempts int) {
	f.factory.On("Create").Return(f.uow).Times(attempts + 1)
	f.uow.On("QueueRepository").Return(f.queueRepo).Times(attempts + 1)
	if attempts == 0 {
		return
	}
	f.uow.On("Begin", ctx).Return(nil).Times(attempts)
	f.uow.On("CourierRepository").Return(f.courierRepo).Times(attempts)
	f.uow.On("Rollback", ctx).Return(nil).Times(attempts)
}

func (f *matcherFixture) handle() error {
	return f.handler.Handle(f.ctx, commands.NewMatchQueueHeadCommand())
}

func (f *matcherFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.queueRepo.AssertExpectations(t)
	f.courierRepo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func noFreeCourier() error {
	return errs.NewObjectNotFoundError("courier", "free")
}

func TestMatchQueueHeadCommandHandler_EmptyQueue(t *testing.T) {
	f := newMatcherFixture(t, 0)
	f.expectAttempts(f.ctx, 0)
	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).Return([]*queue.Entry{}, nil).Once()

	err := f.handle()

	require.ErrorIs(t, err, commands.ErrQueueIsEmpty)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_ExpiresAfterMaxWait(t *testing.T) {
	f := newMatcherFixture(t, 0)
	bob := kernel.NewUUID()
	f.clock.Advance(181 * time.Second)
	f.expectAttempts(f.ctx, 0)

	mock.InOrder(
		f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
			Return([]*queue.Entry{searchingEntry(t, 1, bob, t0)}, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Expired)).Return(true, nil).Once(),
		f.notifier.On("NotifyExpired", mock.Anything, bob).Return(nil).Once(),
	)

	require.NoError(t, f.handle())
	f.courierRepo.AssertNotCalled(t, "FindOneFree", mock.Anything)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_MatchesHeadAndNotifies(t *testing.T) {
	f := newMatcherFixture(t, 0)
	bob := kernel.NewUUID()
	c := freeCourier(t, 4.5)
	f.clock.Advance(20 * time.Second)
	f.expectAttempts(f.ctx, 1)

	mock.InOrder(
		f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
			Return([]*queue.Entry{searchingEntry(t, 1, bob, t0)}, nil).Once(),
		f.courierRepo.On("FindOneFree", f.ctx).Return(c, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, mock.MatchedBy(func(e *queue.Entry) bool {
			return e.ID() == 1 && e.Status() == queue.Completed && e.UpdatedAt().Equal(t0.Add(20*time.Second))
		})).Return(true, nil).Once(),
		f.courierRepo.On("UpdateAvailability", f.ctx, c).Return(true, nil).Once(),
		f.uow.On("Commit", f.ctx).Return(nil).Once(),
		f.notifier.On("NotifyMatched", mock.Anything, bob, c.ID(), 4.5).Return(nil).Once(),
	)

	require.NoError(t, f.handle())
	assert.False(t, c.IsFree())
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_ServesOnlyTheOldestEntry(t *testing.T) {
	f := newMatcherFixture(t, 0)
	first, second := kernel.NewUUID(), kernel.NewUUID()
	c := freeCourier(t, 4)
	f.clock.Advance(30 * time.Second)
	f.expectAttempts(f.ctx, 1)

	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).Return([]*queue.Entry{
		searchingEntry(t, 3, first, t0),
		searchingEntry(t, 8, second, t0.Add(5*time.Second)),
	}, nil).Once()
	f.courierRepo.On("FindOneFree", f.ctx).Return(c, nil).Once()
	f.queueRepo.On("UpdateStatus", f.ctx, entryWith(3, queue.Completed)).Return(true, nil).Once()
	f.courierRepo.On("UpdateAvailability", f.ctx, c).Return(true, nil).Once()
	f.uow.On("Commit", f.ctx).Return(nil).Once()
	f.notifier.On("NotifyMatched", mock.Anything, first, c.ID(), 4.0).Return(nil).Once()

	require.NoError(t, f.handle())
	f.notifier.AssertNotCalled(t, "NotifyMatched", mock.Anything, second, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_ExpiresStaleThenServesNextHead(t *testing.T) {
	f := newMatcherFixture(t, 0)
	stale, fresh := kernel.NewUUID(), kernel.NewUUID()
	c := freeCourier(t, 5)
	f.clock.Advance(200 * time.Second)
	f.expectAttempts(f.ctx, 1)

	mock.InOrder(
		f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).Return([]*queue.Entry{
			searchingEntry(t, 1, stale, t0),
			searchingEntry(t, 2, fresh, t0.Add(100*time.Second)),
		}, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Expired)).Return(true, nil).Once(),
		f.notifier.On("NotifyExpired", mock.Anything, stale).Return(nil).Once(),
		f.courierRepo.On("FindOneFree", f.ctx).Return(c, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, entryWith(2, queue.Completed)).Return(true, nil).Once(),
		f.courierRepo.On("UpdateAvailability", f.ctx, c).Return(true, nil).Once(),
		f.uow.On("Commit", f.ctx).Return(nil).Once(),
		f.notifier.On("NotifyMatched", mock.Anything, fresh, c.ID(), 5.0).Return(nil).Once(),
	)

	require.NoError(t, f.handle())
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_HeadExpiresWhileSearching(t *testing.T) {
	f := newMatcherFixture(t, 0)
	bob := kernel.NewUUID()
	f.clock.Advance(170 * time.Second)
	f.expectAttempts(f.ctx, 2)

	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
		Return([]*queue.Entry{searchingEntry(t, 1, bob, t0)}, nil).Once()
	f.courierRepo.On("FindOneFree", f.ctx).Return(nil, noFreeCourier()).
		Run(func(mock.Arguments) { f.clock.Advance(6 * time.Second) }).Twice()
	f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Expired)).Return(true, nil).Once()
	f.notifier.On("NotifyExpired", mock.Anything, bob).Return(nil).Once()

	require.NoError(t, f.handle())
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_CourierLostToConcurrentClaim_Retries(t *testing.T) {
	f := newMatcherFixture(t, 0)
	bob := kernel.NewUUID()
	taken, other := freeCourier(t, 4), freeCourier(t, 3)
	f.clock.Advance(10 * time.Second)
	f.expectAttempts(f.ctx, 2)

	mock.InOrder(
		f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
			Return([]*queue.Entry{searchingEntry(t, 1, bob, t0)}, nil).Once(),
		f.courierRepo.On("FindOneFree", f.ctx).Return(taken, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Completed)).Return(true, nil).Once(),
		f.courierRepo.On("UpdateAvailability", f.ctx, taken).Return(false, nil).Once(),
		f.courierRepo.On("FindOneFree", f.ctx).Return(other, nil).Once(),
		f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Completed)).Return(true, nil).Once(),
		f.courierRepo.On("UpdateAvailability", f.ctx, other).Return(true, nil).Once(),
		f.uow.On("Commit", f.ctx).Return(nil).Once(),
		f.notifier.On("NotifyMatched", mock.Anything, bob, other.ID(), 3.0).Return(nil).Once(),
	)

	require.NoError(t, f.handle())
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_HeadHandledElsewhere(t *testing.T) {
	f := newMatcherFixture(t, 0)
	c := freeCourier(t, 4)
	f.expectAttempts(f.ctx, 1)

	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
		Return([]*queue.Entry{searchingEntry(t, 1, kernel.NewUUID(), t0)}, nil).Once()
	f.courierRepo.On("FindOneFree", f.ctx).Return(c, nil).Once()
	f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Completed)).Return(false, nil).Once()

	require.NoError(t, f.handle())
	f.courierRepo.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	assert.True(t, c.IsFree())
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_NotifyFailureDoesNotFailCycle(t *testing.T) {
	f := newMatcherFixture(t, 0)
	bob := kernel.NewUUID()
	c := freeCourier(t, 4)
	f.expectAttempts(f.ctx, 1)
	failures := observability.NotificationFailuresTotal.WithLabelValues(observability.EventMatched)
	before := testutil.ToFloat64(failures)

	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
		Return([]*queue.Entry{searchingEntry(t, 1, bob, t0)}, nil).Once()
	f.courierRepo.On("FindOneFree", f.ctx).Return(c, nil).Once()
	f.queueRepo.On("UpdateStatus", f.ctx, entryWith(1, queue.Completed)).Return(true, nil).Once()
	f.courierRepo.On("UpdateAvailability", f.ctx, c).Return(true, nil).Once()
	f.uow.On("Commit", f.ctx).Return(nil).Once()
	f.notifier.On("NotifyMatched", mock.Anything, bob, c.ID(), 4.0).
		Return(errors.New("orders service unavailable")).Once()

	require.NoError(t, f.handle())
	assert.InDelta(t, before+1, testutil.ToFloat64(failures), 1e-9)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_CancelledWhileWaitingForCourier(t *testing.T) {
	f := newMatcherFixture(t, time.Second)
	ctx, cancel := context.WithCancel(t.Context())
	f.ctx = ctx
	f.expectAttempts(mock.Anything, 1)

	f.queueRepo.On("ListByStatus", mock.Anything, queue.Searching).
		Return([]*queue.Entry{searchingEntry(t, 1, kernel.NewUUID(), t0)}, nil).Once()
	f.courierRepo.On("FindOneFree", mock.Anything).Return(nil, noFreeCourier()).Once()

	done := make(chan error, 1)
	go func() { done <- f.handle() }()

	require.NoError(t, f.clock.BlockUntilContext(t.Context(), 1))
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("matcher cycle did not stop after cancellation")
	}
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_BeginErrorIsReturned(t *testing.T) {
	f := newMatcherFixture(t, 0)
	beginErr := errors.New("too many connections")
	f.factory.On("Create").Return(f.uow).Twice()
	f.uow.On("QueueRepository").Return(f.queueRepo).Once()
	f.uow.On("Begin", f.ctx).Return(beginErr).Once()
	f.queueRepo.On("ListByStatus", f.ctx, queue.Searching).
		Return([]*queue.Entry{searchingEntry(t, 1, kernel.NewUUID(), t0)}, nil).Once()

	require.ErrorIs(t, f.handle(), beginErr)
	f.assertExpectations(t)
}

func TestMatchQueueHeadCommandHandler_ValidationError(t *testing.T) {
	f := newMatcherFixture(t, 0)

	err := f.handler.Handle(f.ctx, commands.MatchQueueHeadCommand{})

	require.ErrorIs(t, err, commands.ErrMatchQueueHeadCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
}
