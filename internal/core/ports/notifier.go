package ports

import (
	"context"

	"matching/internal/core/domain/model/kernel"
)

// Notifier informs peer services about queue outcomes. Callers treat every
// call as best effort: a returned error is logged and never undoes the state
// transition that triggered it.
type Notifier interface {
	// NotifyExpired reports that the requester's entry expired.
	NotifyExpired(ctx context.Context, requesterID kernel.UUID) error

	// NotifyMatched reports that the requester was bound to a courier.
	NotifyMatched(ctx context.Context, requesterID, courierID kernel.UUID, courierRating float64) error
}
