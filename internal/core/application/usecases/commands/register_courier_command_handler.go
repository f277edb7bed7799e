package commands

import (
	"context"

	"matching/internal/core/domain/model/courier"
)

// RegisterCourierCommandHandler adds a free courier to the registry.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewRegisterCourierCommandHandler creates the handler.
func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the courier aggregate and persists it.
func (h RegisterCourierCommandHandler) Handle(ctx context.Context, command RegisterCourierCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	c, err := courier.NewCourier(command.CourierID(), command.Rating())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
