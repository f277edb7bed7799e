package commands

import (
	"context"
	"errors"
)

// ErrCourierIsNotBusy is returned when releasing a courier that is already free,
// including when a concurrent release won the conditional write.
var ErrCourierIsNotBusy = errors.New("courier is not busy")

// ReleaseCourierCommandHandler flips a courier back to free so the matcher can
// pick it up on its next attempt.
type ReleaseCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewReleaseCourierCommandHandler creates the handler.
func NewReleaseCourierCommandHandler(uowFactory CourierUoWFactory) ReleaseCourierCommandHandler {
	return ReleaseCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle releases the courier with a compare-and-set on the busy flag.
func (h ReleaseCourierCommandHandler) Handle(ctx context.Context, command ReleaseCourierCommand) error {
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

	if err = c.Release(); err != nil {
		return errors.Join(ErrCourierIsNotBusy, err)
	}

	applied, err := courierRepo.UpdateAvailability(ctx, c)
	if err != nil {
		return err
	}
	if !applied {
		return ErrCourierIsNotBusy
	}

	return uow.Commit(ctx)
}
