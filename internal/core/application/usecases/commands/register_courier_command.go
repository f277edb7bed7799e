package commands

import (
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/guard"
)

var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

// RegisterCourierCommand adds a courier to the registry when the account
// service signs one up. The courier starts free.
//
// Example:
//
//	cmd, err := NewRegisterCourierCommand(accountID, 5)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type RegisterCourierCommand struct {
	courierID kernel.UUID
	rating    float64

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand builds the command. The rating is validated by the
// Courier aggregate.
func NewRegisterCourierCommand(courierID kernel.UUID, rating float64) (RegisterCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return RegisterCourierCommand{}, err
	}

	return RegisterCourierCommand{
		courierID: courierID,
		rating:    rating,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the id issued by the account service.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Rating returns the initial rating.
func (c RegisterCourierCommand) Rating() float64 {
	return c.rating
}
