package commands

import (
	"context"
)

// UpdateCourierRatingCommandHandler writes a new rating to the courier registry.
// The rating does not influence the queue; it is only forwarded with matches.
type UpdateCourierRatingCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewUpdateCourierRatingCommandHandler creates the handler.
func NewUpdateCourierRatingCommandHandler(uowFactory CourierUoWFactory) UpdateCourierRatingCommandHandler {
	return UpdateCourierRatingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the courier, changes its rating and persists it.
// Returns errs.ErrObjectNotFound for an unknown courier.
func (h UpdateCourierRatingCommandHandler) Handle(ctx context.Context, command UpdateCourierRatingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	if err = c.ChangeRating(command.Rating()); err != nil {
		return err
	}

	if err = courierRepo.UpdateRating(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
