package queue

import (
	"errors"
	"fmt"
	"time"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"
	"matching/internal/pkg/guard"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created through
// NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// Entry is one requester's place in the courier queue. It is the aggregate root
// of the queue: the matcher and request intake only ever change an entry
// through Complete and Expire.
//
// Entry follows these invariants:
//   - the sequence id is assigned by the store and defines FIFO order
//   - status moves only from Searching to Completed or Expired
//   - updatedAt changes exactly when the status changes
//
// Entries are never deleted. Completed ones feed the wait forecaster.
type Entry struct {
	// id is the store-assigned sequence number (0 until persisted)
	id int64

	requesterID kernel.UUID
	status      Status
	createdAt   time.Time
	updatedAt   time.Time

	guard guard.ConstructorGuard
}

// NewEntry creates a Searching entry for the requester, queued at now.
//
// Example:
//
//	entry, err := queue.NewEntry(requesterID, clock.Now())
//	if err != nil {
//	    return err
//	}
//	stored, err := uow.QueueRepository().Add(ctx, entry)
func NewEntry(requesterID kernel.UUID, now time.Time) (*Entry, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}

	return &Entry{
		requesterID: requesterID,
		status:      Searching,
		createdAt:   now,
		updatedAt:   now,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreEntry rebuilds an entry read from the store.
func RestoreEntry(
	id int64,
	requesterID kernel.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) (*Entry, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a sequence id", id))
	}
	if err := errors.Join(requesterID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause("updatedAt", errors.New("updatedAt precedes createdAt"))
	}

	return &Entry{
		id:          id,
		requesterID: requesterID,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the entry came from one of its constructors.
func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

// ID returns the sequence id, or 0 for an entry that was never stored.
func (e *Entry) ID() int64 {
	return e.id
}

// RequesterID returns the requester that owns the entry.
func (e *Entry) RequesterID() kernel.UUID {
	return e.requesterID
}

// Status returns the current status.
func (e *Entry) Status() Status {
	return e.status
}

// CreatedAt is the moment the requester joined the queue.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt is the moment of the last status transition (createdAt while Searching).
func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

// Age is how long the entry has existed at now. It is never negative.
func (e *Entry) Age(now time.Time) time.Duration {
	age := now.Sub(e.createdAt)
	if age < 0 {
		return 0
	}
	return age
}

// IsExpired reports whether a Searching entry has waited strictly longer than maxWait.
func (e *Entry) IsExpired(now time.Time, maxWait time.Duration) bool {
	return e.status == Searching && e.Age(now) > maxWait
}

// ServiceDuration is the time between queueing and the terminal transition.
func (e *Entry) ServiceDuration() time.Duration {
	return e.updatedAt.Sub(e.createdAt)
}

// Complete marks the entry as bound to a courier.
func (e *Entry) Complete(now time.Time) error {
	next, err := e.status.Complete()
	if err != nil {
		return err
	}
	e.transition(next, now)
	return nil
}

// Expire marks the entry as abandoned after waiting too long.
func (e *Entry) Expire(now time.Time) error {
	next, err := e.status.Expire()
	if err != nil {
		return err
	}
	e.transition(next, now)
	return nil
}

// Clone returns an independent copy, used to stage a transition that may be
// rolled back.
func (e *Entry) Clone() *Entry {
	clone := *e
	return &clone
}

func (e *Entry) transition(next Status, now time.Time) {
	e.status = next
	if now.Before(e.createdAt) {
		now = e.createdAt
	}
	e.updatedAt = now
}
