package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"matching/internal/core/domain/model/queue"
	"matching/internal/core/ports"
	"matching/internal/observability"
	"matching/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

// ErrQueueIsEmpty is returned when there is no Searching entry to work on.
// The matching job sleeps before the next cycle when it sees it.
var ErrQueueIsEmpty = errors.New("queue is empty")

type assignResult int

const (
	// noCourier means no free courier could be claimed for the head this time.
	noCourier assignResult = iota
	// assigned means the head was completed and its courier claimed.
	assigned
	// handledElsewhere means the head left Searching through another actor.
	handledElsewhere
)

// MatchQueueHeadCommandHandler runs one matcher cycle.
//
// A cycle reads every Searching entry oldest first, expires those that have
// waited longer than maxWait, and then serves only the oldest remaining entry:
// it keeps looking for a free courier, pausing pollBackoff between attempts,
// until the head is matched, expires, or ctx is cancelled. Later entries are
// never served while an earlier one is still waiting.
//
// Completing the entry and claiming the courier are two conditional writes in
// one transaction. If the courier was claimed concurrently the transaction is
// rolled back and the search goes on. If the entry already left Searching the
// cycle ends without error.
//
// Example:
//
//	handler := NewMatchQueueHeadCommandHandler(uowFactory, notifier, clock, 180*time.Second, 100*time.Millisecond, logger)
//	err := handler.Handle(ctx, NewMatchQueueHeadCommand())
//	switch {
//	case errors.Is(err, ErrQueueIsEmpty):
//	    // idle
//	case err != nil:
//	    // store failure, retry later
//	}
type MatchQueueHeadCommandHandler struct {
	uowFactory  UoWFactory
	notify      bestEffortNotifier
	clock       clockwork.Clock
	maxWait     time.Duration
	pollBackoff time.Duration
	logger      *slog.Logger
}

// NewMatchQueueHeadCommandHandler creates the matcher cycle handler. A zero
// pollBackoff polls for couriers without pausing.
func NewMatchQueueHeadCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock clockwork.Clock,
	maxWait time.Duration,
	pollBackoff time.Duration,
	logger *slog.Logger,
) MatchQueueHeadCommandHandler {
	logger = logger.With("component", "matcher")
	return MatchQueueHeadCommandHandler{
		uowFactory:  uowFactory,
		notify:      bestEffortNotifier{notifier: notifier, logger: logger},
		clock:       clock,
		maxWait:     maxWait,
		pollBackoff: pollBackoff,
		logger:      logger,
	}
}

// Handle runs one cycle. It returns ErrQueueIsEmpty when nothing is waiting
// and ctx.Err() when cancelled while searching.
func (h MatchQueueHeadCommandHandler) Handle(ctx context.Context, command MatchQueueHeadCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	queueRepo := h.uowFactory.Create().QueueRepository()

	entries, err := queueRepo.ListByStatus(ctx, queue.Searching)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return ErrQueueIsEmpty
	}

	var head *queue.Entry
	now := h.clock.Now()
	for _, entry := range entries {
		if entry.IsExpired(now, h.maxWait) {
			if err = h.expire(ctx, queueRepo, entry); err != nil {
				return err
			}
			continue
		}
		if head == nil {
			head = entry
		}
	}
	if head == nil {
		return nil
	}

	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		if head.IsExpired(h.clock.Now(), h.maxWait) {
			return h.expire(ctx, queueRepo, head)
		}

		result, err := h.tryAssign(ctx, head)
		if err != nil {
			return err
		}
		if result != noCourier {
			return nil
		}

		if err = h.pause(ctx); err != nil {
			return err
		}
	}
}

// tryAssign binds head to a free courier in one transaction.
func (h MatchQueueHeadCommandHandler) tryAssign(ctx context.Context, head *queue.Entry) (assignResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return noCourier, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	queueRepo := uow.QueueRepository()
	courierRepo := uow.CourierRepository()

	free, err := courierRepo.FindOneFree(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return noCourier, nil
	}
	if err != nil {
		return noCourier, err
	}

	entry := head.Clone()
	if err = entry.Complete(h.clock.Now()); err != nil {
		return noCourier, err
	}

	applied, err := queueRepo.UpdateStatus(ctx, entry)
	if err != nil {
		return noCourier, err
	}
	if !applied {
		observability.LostRacesTotal.WithLabelValues(observability.ResourceEntry).Inc()
		h.logger.DebugContext(ctx, "queue head already left searching", "entry_id", head.ID())
		return handledElsewhere, nil
	}

	if err = free.Occupy(); err != nil {
		return noCourier, err
	}

	applied, err = courierRepo.UpdateAvailability(ctx, free)
	if err != nil {
		return noCourier, err
	}
	if !applied {
		observability.LostRacesTotal.WithLabelValues(observability.ResourceCourier).Inc()
		h.logger.DebugContext(ctx, "courier claimed concurrently", "courier_id", free.ID().String())
		return noCourier, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return noCourier, err
	}

	observability.MatchesTotal.WithLabelValues(observability.PathQueue).Inc()
	observability.QueueWaitSeconds.Observe(entry.ServiceDuration().Seconds())
	h.logger.InfoContext(ctx, "courier matched",
		"entry_id", entry.ID(),
		"requester_id", entry.RequesterID().String(),
		"courier_id", free.ID().String())

	h.notify.matched(ctx, entry, free)
	return assigned, nil
}

func (h MatchQueueHeadCommandHandler) expire(
	ctx context.Context,
	queueRepo ports.QueueRepository,
	entry *queue.Entry,
) error {
	if err := entry.Expire(h.clock.Now()); err != nil {
		return err
	}

	applied, err := queueRepo.UpdateStatus(ctx, entry)
	if err != nil {
		return err
	}
	if !applied {
		observability.LostRacesTotal.WithLabelValues(observability.ResourceEntry).Inc()
		return nil
	}

	observability.ExpirationsTotal.WithLabelValues(observability.SourceMatcher).Inc()
	h.logger.InfoContext(ctx, "queue entry expired",
		"entry_id", entry.ID(),
		"requester_id", entry.RequesterID().String())

	h.notify.expired(ctx, entry)
	return nil
}

func (h MatchQueueHeadCommandHandler) pause(ctx context.Context) error {
	if h.pollBackoff <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.clock.After(h.pollBackoff):
		return nil
	}
}
