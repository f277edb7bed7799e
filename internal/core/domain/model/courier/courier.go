package courier

import (
	"errors"
	"fmt"
	"math"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"
	"matching/internal/pkg/guard"
)

const (
	// MinRating is the lowest rating a courier can hold.
	MinRating = 0.0
	// MaxRating is the highest rating a courier can hold.
	MaxRating = 5.0
)

// Domain errors for courier operations.
var (
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
	// ErrCourierIsBusy is returned when occupying a courier that is already matched.
	ErrCourierIsBusy = errs.NewValueIsInvalidErrorWithCause("courier", errors.New("courier is busy"))
	// ErrCourierIsAlreadyFree is returned when releasing a courier that is already free.
	ErrCourierIsAlreadyFree = errs.NewValueIsInvalidErrorWithCause("courier", errors.New("courier is already free"))
)

// Courier is a delivery courier as seen by the matcher: an identity, a free
// flag and a rating that is reported to the requester on a match.
//
// Business rules:
//   - a courier can only be occupied while free
//   - the free flag is flipped back to true outside the matching core
//   - rating stays within [MinRating, MaxRating]
//
// Occupy and Release only change the in-memory aggregate. The repository
// persists the flip as a compare-and-set on the previous value, which is what
// prevents two concurrent claims of the same courier.
type Courier struct {
	id     kernel.UUID
	free   bool
	rating float64
	guard  guard.ConstructorGuard
}

// NewCourier registers a courier that starts free.
//
// Example:
//
//	c, err := courier.NewCourier(courierID, 4.8)
//	if err != nil {
//	    return err
//	}
//	err = uow.CourierRepository().Add(ctx, c)
func NewCourier(id kernel.UUID, rating float64) (*Courier, error) {
	return RestoreCourier(id, true, rating)
}

// RestoreCourier rebuilds a courier read from the registry.
func RestoreCourier(id kernel.UUID, free bool, rating float64) (*Courier, error) {
	if err := errors.Join(id.Validate(), validateRating(rating)); err != nil {
		return nil, err
	}

	return &Courier{
		id:     id,
		free:   free,
		rating: rating,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the courier came from one of its constructors.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// IsFree reports whether the courier can be matched.
func (c *Courier) IsFree() bool {
	return c.free
}

// Rating returns the current rating.
func (c *Courier) Rating() float64 {
	return c.rating
}

// Occupy marks the courier as matched.
func (c *Courier) Occupy() error {
	if !c.free {
		return ErrCourierIsBusy
	}
	c.free = false
	return nil
}

// Release makes a busy courier available again.
func (c *Courier) Release() error {
	if c.free {
		return ErrCourierIsAlreadyFree
	}
	c.free = true
	return nil
}

// ChangeRating replaces the rating after range validation.
func (c *Courier) ChangeRating(rating float64) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	c.rating = rating
	return nil
}

func validateRating(rating float64) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeErrorWithCause("rating", rating, MinRating, MaxRating,
			fmt.Errorf("rating must be within [%v, %v]", MinRating, MaxRating))
	}
	return nil
}
