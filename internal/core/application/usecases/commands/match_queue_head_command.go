package commands

import (
	"errors"

	"matching/internal/pkg/guard"
)

var ErrMatchQueueHeadCommandIsNotConstructed = errors.New(
	"MatchQueueHeadCommand must be created via NewMatchQueueHeadCommand constructor",
)

// MatchQueueHeadCommand runs one matcher cycle: expire overdue entries, then
// keep looking for a courier for the head of the queue until it is matched or
// expires. It carries no data; the queue itself is the input.
type MatchQueueHeadCommand struct {
	guard guard.ConstructorGuard
}

// NewMatchQueueHeadCommand creates the command.
func NewMatchQueueHeadCommand() MatchQueueHeadCommand {
	return MatchQueueHeadCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c MatchQueueHeadCommand) Validate() error {
	return c.guard.Validate(ErrMatchQueueHeadCommandIsNotConstructed)
}
