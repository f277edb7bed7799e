package queries

import (
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
	"matching/internal/pkg/errs"
	"matching/internal/pkg/guard"
)

var (
	ErrGetWaitStatusQueryIsNotConstructed = errors.New(
		"GetWaitStatusQuery must be created via NewGetWaitStatusQuery constructor",
	)
)

// GetWaitStatusQuery asks for the state of a requester's latest queue entry
// and, while it is Searching, the forecast of the remaining wait.
type GetWaitStatusQuery struct {
	requesterID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWaitStatusQuery creates the query for the given requester.
func NewGetWaitStatusQuery(requesterID kernel.UUID) (GetWaitStatusQuery, error) {
	if err := requesterID.Validate(); err != nil {
		return GetWaitStatusQuery{}, errs.NewValueIsRequiredErrorWithCause("requesterID", err)
	}

	return GetWaitStatusQuery{
		requesterID: requesterID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWaitStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetWaitStatusQueryIsNotConstructed)
}

func (q GetWaitStatusQuery) RequesterID() kernel.UUID {
	return q.requesterID
}

// GetWaitStatusQueryResponse describes the requester's latest entry.
// ETASeconds is nil unless the entry is still Searching.
type GetWaitStatusQueryResponse struct {
	EntryID    int64
	Status     queue.Status
	ETASeconds *int
}
