package commands

import (
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/guard"
)

var ErrFindCourierCommandIsNotConstructed = errors.New(
	"FindCourierCommand must be created via NewFindCourierCommand constructor",
)

// FindCourierCommand asks for a courier on behalf of one requester. The
// result is a match.Outcome: an immediate match, a queue position, or a
// refusal (throttled or expired).
//
// Example:
//
//	cmd, err := NewFindCourierCommand(requesterID)
//	if err != nil {
//	    return err
//	}
//	outcome, err := handler.Handle(ctx, cmd)
type FindCourierCommand struct {
	requesterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFindCourierCommand validates the requester id and builds the command.
func NewFindCourierCommand(requesterID kernel.UUID) (FindCourierCommand, error) {
	if err := requesterID.Validate(); err != nil {
		return FindCourierCommand{}, err
	}

	return FindCourierCommand{
		requesterID: requesterID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FindCourierCommand) Validate() error {
	return c.guard.Validate(ErrFindCourierCommandIsNotConstructed)
}

// RequesterID returns the requester looking for a courier.
func (c FindCourierCommand) RequesterID() kernel.UUID {
	return c.requesterID
}
