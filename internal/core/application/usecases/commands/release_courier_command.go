package commands

import (
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/guard"
)

var ErrReleaseCourierCommandIsNotConstructed = errors.New(
	"ReleaseCourierCommand must be created via NewReleaseCourierCommand constructor",
)

// ReleaseCourierCommand makes a busy courier available for matching again.
// It is sent by the order service once a delivery is finished.
type ReleaseCourierCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseCourierCommand builds the command.
func NewReleaseCourierCommand(courierID kernel.UUID) (ReleaseCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ReleaseCourierCommand{}, err
	}

	return ReleaseCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseCourierCommand) Validate() error {
	return c.guard.Validate(ErrReleaseCourierCommandIsNotConstructed)
}

// CourierID returns the courier to release.
func (c ReleaseCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
