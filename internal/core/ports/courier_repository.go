// Package ports defines the contracts between the matching core and its
// infrastructure: the queue store, the courier registry, the notifier and the
// forecast cache.
package ports

import (
	"context"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
)

// CourierRepository is the persistence contract of the courier registry.
type CourierRepository interface {
	// Add registers a new courier.
	Add(ctx context.Context, courier *courier.Courier) error

	// Get returns the courier or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// FindOneFree returns a courier observed free at read time, preferring the
	// best rating. Returns errs.ErrObjectNotFound when every courier is busy.
	FindOneFree(ctx context.Context) (*courier.Courier, error)

	// UpdateAvailability persists the courier's free flag as a compare-and-set
	// on the opposite value. applied is false when another actor flipped the
	// flag first.
	//
	// Example:
	//
	//	if err := c.Occupy(); err != nil {
	//	    return err
	//	}
	//	applied, err := repo.UpdateAvailability(ctx, c)
	//	if err != nil {
	//	    return err
	//	}
	//	if !applied {
	//	    // lost the race, look for another courier
	//	}
	UpdateAvailability(ctx context.Context, courier *courier.Courier) (applied bool, err error)

	// UpdateRating persists the rating. Returns errs.ErrObjectNotFound for an
	// unknown courier.
	UpdateRating(ctx context.Context, courier *courier.Courier) error
}
