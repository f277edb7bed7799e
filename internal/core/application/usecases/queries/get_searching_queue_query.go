package queries

import (
	"errors"
	"time"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/guard"
)

var (
	ErrGetSearchingQueueQueryIsNotConstructed = errors.New(
		"GetSearchingQueueQuery must be created via NewGetSearchingQueueQuery constructor",
	)
)

// GetSearchingQueueQuery lists the requesters currently waiting, in the order
// the matcher will serve them.
type GetSearchingQueueQuery struct {
	guard guard.ConstructorGuard
}

// NewGetSearchingQueueQuery creates the query.
func NewGetSearchingQueueQuery() GetSearchingQueueQuery {
	return GetSearchingQueueQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetSearchingQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetSearchingQueueQueryIsNotConstructed)
}

// GetSearchingQueueQueryResponse is one waiting entry.
type GetSearchingQueueQueryResponse struct {
	EntryID     int64
	RequesterID kernel.UUID
	CreatedAt   time.Time
}
