package commands

import (
	"context"
	"log/slog"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/queue"
	"matching/internal/core/ports"
	"matching/internal/observability"
)

// bestEffortNotifier sends notifications after a commit. Failures are logged
// and counted, never returned.
type bestEffortNotifier struct {
	notifier ports.Notifier
	logger   *slog.Logger
}

func (n bestEffortNotifier) expired(ctx context.Context, entry *queue.Entry) {
	ctx = context.WithoutCancel(ctx)
	if err := n.notifier.NotifyExpired(ctx, entry.RequesterID()); err != nil {
		observability.NotificationFailuresTotal.WithLabelValues(observability.EventExpired).Inc()
		n.logger.ErrorContext(ctx, "failed to notify about expired queue entry",
			"entry_id", entry.ID(),
			"requester_id", entry.RequesterID().String(),
			"error", err)
	}
}

func (n bestEffortNotifier) matched(ctx context.Context, entry *queue.Entry, c *courier.Courier) {
	ctx = context.WithoutCancel(ctx)
	if err := n.notifier.NotifyMatched(ctx, entry.RequesterID(), c.ID(), c.Rating()); err != nil {
		observability.NotificationFailuresTotal.WithLabelValues(observability.EventMatched).Inc()
		n.logger.ErrorContext(ctx, "failed to notify about found courier",
			"entry_id", entry.ID(),
			"requester_id", entry.RequesterID().String(),
			"courier_id", c.ID().String(),
			"error", err)
	}
}
