package ports

import (
	"context"
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
)

// ErrRequesterIsAlreadySearching is returned by QueueRepository.Add when the
// requester already owns a Searching entry. The store enforces at most one
// Searching entry per requester.
var ErrRequesterIsAlreadySearching = errors.New("requester already has a searching entry")

// QueueRepository is the persistence contract of the courier queue.
//
// Every status change is a conditional write on the Searching status. A write
// that matched no row is reported as applied == false with a nil error: some
// other actor already moved the entry, which is not a failure.
type QueueRepository interface {
	// Add inserts a Searching entry and returns it with its sequence id.
	// Returns ErrRequesterIsAlreadySearching when a concurrent caller queued
	// the same requester first.
	Add(ctx context.Context, entry *queue.Entry) (*queue.Entry, error)

	// ListByStatus returns the entries with the given status, oldest (smallest id) first.
	ListByStatus(ctx context.Context, status queue.Status) ([]*queue.Entry, error)

	// UpdateStatus persists a transition of a Searching entry.
	UpdateStatus(ctx context.Context, entry *queue.Entry) (applied bool, err error)

	// LatestForRequester returns the requester's newest entry in any status.
	// Returns errs.ErrObjectNotFound when the requester never queued.
	LatestForRequester(ctx context.Context, requesterID kernel.UUID) (*queue.Entry, error)

	// RecentCompletedAtOrBefore returns up to limit Completed entries whose id is
	// not greater than entryID, newest first.
	RecentCompletedAtOrBefore(ctx context.Context, entryID int64, limit int) ([]*queue.Entry, error)

	// SearchingBefore returns the Searching entries with a smaller id than entryID,
	// oldest first.
	SearchingBefore(ctx context.Context, entryID int64) ([]*queue.Entry, error)
}
