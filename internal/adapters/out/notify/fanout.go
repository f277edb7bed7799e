// Package notify combines several notifiers into one.
package notify

import (
	"context"
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/ports"
)

// Fanout delivers every notification to all targets, in order, and joins
// their errors. A failing target does not stop the others.
type Fanout struct {
	targets []ports.Notifier
}

// NewFanout skips nil targets. With no targets every call is a no-op.
func NewFanout(targets ...ports.Notifier) *Fanout {
	kept := make([]ports.Notifier, 0, len(targets))
	for _, target := range targets {
		if target != nil {
			kept = append(kept, target)
		}
	}
	return &Fanout{targets: kept}
}

func (f *Fanout) NotifyExpired(ctx context.Context, requesterID kernel.UUID) error {
	var err error
	for _, target := range f.targets {
		err = errors.Join(err, target.NotifyExpired(ctx, requesterID))
	}
	return err
}

func (f *Fanout) NotifyMatched(ctx context.Context, requesterID, courierID kernel.UUID, courierRating float64) error {
	var err error
	for _, target := range f.targets {
		err = errors.Join(err, target.NotifyMatched(ctx, requesterID, courierID, courierRating))
	}
	return err
}

// Len reports how many targets are wired.
func (f *Fanout) Len() int {
	return len(f.targets)
}
