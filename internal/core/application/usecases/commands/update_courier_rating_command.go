package commands

import (
	"errors"
	"math"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"
	"matching/internal/pkg/guard"
)

var ErrUpdateCourierRatingCommandIsNotConstructed = errors.New(
	"UpdateCourierRatingCommand must be created via NewUpdateCourierRatingCommand constructor",
)

// UpdateCourierRatingCommand replaces the rating of a registered courier.
type UpdateCourierRatingCommand struct {
	courierID kernel.UUID
	rating    float64

	guard guard.ConstructorGuard
}

// NewUpdateCourierRatingCommand validates the id and the rating range.
func NewUpdateCourierRatingCommand(courierID kernel.UUID, rating float64) (UpdateCourierRatingCommand, error) {
	if err := courierID.Validate(); err != nil {
		return UpdateCourierRatingCommand{}, err
	}
	if math.IsNaN(rating) || rating < courier.MinRating || rating > courier.MaxRating {
		return UpdateCourierRatingCommand{}, errs.NewValueIsOutOfRangeError(
			"rating", rating, courier.MinRating, courier.MaxRating)
	}

	return UpdateCourierRatingCommand{
		courierID: courierID,
		rating:    rating,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierRatingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierRatingCommandIsNotConstructed)
}

// CourierID returns the courier to update.
func (c UpdateCourierRatingCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Rating returns the new rating.
func (c UpdateCourierRatingCommand) Rating() float64 {
	return c.rating
}
