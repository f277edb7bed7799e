package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/match"
	"matching/internal/core/domain/model/queue"
	"matching/internal/core/domain/services"
	"matching/internal/core/ports"
	"matching/internal/observability"
	"matching/internal/pkg/errs"

	"github.com/jonboulle/clockwork"
)

// FindCourierCommandHandler is the request intake. For one requester it
// decides, inside a single transaction, between:
//   - Matched: the queue is empty and a free courier could be claimed
//   - QueuedNew: a new Searching entry was inserted
//   - AlreadyQueued: the requester is already waiting
//   - Expired: the requester's waiting entry outlived the maximum wait
//   - Throttled: the requester's last attempt is inside the cool-down window
//
// An instant match never writes a queue entry.
//
// Example:
//
//	handler := NewFindCourierCommandHandler(uowFactory, retryPolicy, 180*time.Second, notifier, clock, logger)
//	outcome, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if outcome.Kind() == match.Throttled {
//	    fmt.Printf("retry in %d seconds\n", outcome.SecondsRemaining())
//	}
type FindCourierCommandHandler struct {
	uowFactory  UoWFactory
	retryPolicy services.RetryPolicy
	maxWait     time.Duration
	notify      bestEffortNotifier
	clock       clockwork.Clock
}

// NewFindCourierCommandHandler creates the intake handler.
func NewFindCourierCommandHandler(
	uowFactory UoWFactory,
	retryPolicy services.RetryPolicy,
	maxWait time.Duration,
	notifier ports.Notifier,
	clock clockwork.Clock,
	logger *slog.Logger,
) FindCourierCommandHandler {
	return FindCourierCommandHandler{
		uowFactory:  uowFactory,
		retryPolicy: retryPolicy,
		maxWait:     maxWait,
		notify: bestEffortNotifier{
			notifier: notifier,
			logger:   logger.With("component", "request_intake"),
		},
		clock: clock,
	}
}

// Handle takes the intake decision for the command's requester.
func (h FindCourierCommandHandler) Handle(ctx context.Context, command FindCourierCommand) (match.Outcome, error) {
	if err := command.Validate(); err != nil {
		return match.Outcome{}, err
	}

	outcome, err := h.decide(ctx, command.RequesterID())
	if errors.Is(err, ports.ErrRequesterIsAlreadySearching) {
		// Another call queued the requester between the read and the insert.
		// Its entry is committed by now, so the second pass sees it.
		observability.LostRacesTotal.WithLabelValues(observability.ResourceEntry).Inc()
		h.notify.logger.DebugContext(ctx, "requester queued concurrently", "requester_id", command.RequesterID().String())
		outcome, err = h.decide(ctx, command.RequesterID())
	}
	if err != nil {
		return match.Outcome{}, err
	}

	observability.IntakeOutcomesTotal.WithLabelValues(outcome.Kind().String()).Inc()
	return outcome, nil
}

func (h FindCourierCommandHandler) decide(ctx context.Context, requesterID kernel.UUID) (match.Outcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return match.Outcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	queueRepo := uow.QueueRepository()
	courierRepo := uow.CourierRepository()
	now := h.clock.Now()

	searching, err := queueRepo.ListByStatus(ctx, queue.Searching)
	if err != nil {
		return match.Outcome{}, err
	}

	if len(searching) == 0 {
		outcome, claimed, err := h.claimFreeCourier(ctx, courierRepo)
		if err != nil {
			return match.Outcome{}, err
		}
		if claimed {
			if err = uow.Commit(ctx); err != nil {
				return match.Outcome{}, err
			}
			observability.MatchesTotal.WithLabelValues(observability.PathInstant).Inc()
			return outcome, nil
		}
		return h.enqueue(ctx, uow, queueRepo, requesterID, now)
	}

	for _, entry := range searching {
		if !entry.RequesterID().IsEqual(requesterID) {
			continue
		}
		if entry.IsExpired(now, h.maxWait) {
			return h.expire(ctx, uow, queueRepo, entry, now)
		}
		return match.NewAlreadyQueued(entry), nil
	}

	last, err := queueRepo.LatestForRequester(ctx, requesterID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
	case err != nil:
		return match.Outcome{}, err
	default:
		if retryAfter := h.retryPolicy.RetryAfter(last, now); retryAfter > 0 {
			return match.NewThrottled(retryAfter), nil
		}
	}

	return h.enqueue(ctx, uow, queueRepo, requesterID, now)
}

// claimFreeCourier reports claimed == false when no courier is free or when
// the one found was claimed concurrently.
func (h FindCourierCommandHandler) claimFreeCourier(
	ctx context.Context,
	courierRepo ports.CourierRepository,
) (match.Outcome, bool, error) {
	free, err := courierRepo.FindOneFree(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return match.Outcome{}, false, nil
	}
	if err != nil {
		return match.Outcome{}, false, err
	}

	if err = free.Occupy(); err != nil {
		return match.Outcome{}, false, err
	}

	applied, err := courierRepo.UpdateAvailability(ctx, free)
	if err != nil {
		return match.Outcome{}, false, err
	}
	if !applied {
		observability.LostRacesTotal.WithLabelValues(observability.ResourceCourier).Inc()
		return match.Outcome{}, false, nil
	}

	return match.NewMatched(free), true, nil
}

func (h FindCourierCommandHandler) enqueue(
	ctx context.Context,
	uow TxManager,
	queueRepo ports.QueueRepository,
	requesterID kernel.UUID,
	now time.Time,
) (match.Outcome, error) {
	entry, err := queue.NewEntry(requesterID, now)
	if err != nil {
		return match.Outcome{}, err
	}

	stored, err := queueRepo.Add(ctx, entry)
	if err != nil {
		return match.Outcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return match.Outcome{}, err
	}

	return match.NewQueued(stored), nil
}

// expire closes an overdue entry found during intake. When the write lost
// against the matcher, the entry was already closed and only the notification
// is skipped.
func (h FindCourierCommandHandler) expire(
	ctx context.Context,
	uow TxManager,
	queueRepo ports.QueueRepository,
	entry *queue.Entry,
	now time.Time,
) (match.Outcome, error) {
	if err := entry.Expire(now); err != nil {
		return match.Outcome{}, err
	}

	applied, err := queueRepo.UpdateStatus(ctx, entry)
	if err != nil {
		return match.Outcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return match.Outcome{}, err
	}

	if applied {
		observability.ExpirationsTotal.WithLabelValues(observability.SourceIntake).Inc()
		h.notify.expired(ctx, entry)
	} else {
		observability.LostRacesTotal.WithLabelValues(observability.ResourceEntry).Inc()
	}

	return match.NewExpired(entry), nil
}
