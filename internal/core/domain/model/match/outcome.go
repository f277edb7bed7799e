// Package match describes the result of a single request intake call.
//
// Outcomes are transient: they are returned to the caller and counted in
// metrics but never stored.
package match

import (
	"time"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
)

// Kind enumerates the possible intake decisions.
type Kind int

const (
	// Unknown is the zero value.
	Unknown Kind = iota
	// Matched means a free courier was claimed without touching the queue.
	Matched
	// QueuedNew means a new Searching entry was inserted.
	QueuedNew
	// AlreadyQueued means the requester already owns a Searching entry.
	AlreadyQueued
	// Expired means the requester's Searching entry had outlived the maximum wait.
	Expired
	// Throttled means the requester retried inside the cool-down window.
	Throttled
)

var kindNames = map[Kind]string{
	Matched:       "matched",
	QueuedNew:     "queued",
	AlreadyQueued: "already_queued",
	Expired:       "expired",
	Throttled:     "throttled",
}

// String returns the wire name of the kind, also used as a metrics label.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the decision taken for one intake call. Only the fields relevant
// to the Kind are set.
type Outcome struct {
	kind          Kind
	courierID     kernel.UUID
	courierRating float64
	entryID       int64
	retryAfter    time.Duration
}

// NewMatched reports an immediate match with the given courier.
func NewMatched(c *courier.Courier) Outcome {
	return Outcome{kind: Matched, courierID: c.ID(), courierRating: c.Rating()}
}

// NewQueued reports that entry was inserted into the queue.
func NewQueued(entry *queue.Entry) Outcome {
	return Outcome{kind: QueuedNew, entryID: entry.ID()}
}

// NewAlreadyQueued reports that entry was already waiting.
func NewAlreadyQueued(entry *queue.Entry) Outcome {
	return Outcome{kind: AlreadyQueued, entryID: entry.ID()}
}

// NewExpired reports that entry was expired during intake.
func NewExpired(entry *queue.Entry) Outcome {
	return Outcome{kind: Expired, entryID: entry.ID()}
}

// NewThrottled reports that a new attempt is allowed after retryAfter.
func NewThrottled(retryAfter time.Duration) Outcome {
	return Outcome{kind: Throttled, retryAfter: retryAfter}
}

// Kind returns the decision.
func (o Outcome) Kind() Kind {
	return o.kind
}

// CourierID is set for Matched.
func (o Outcome) CourierID() kernel.UUID {
	return o.courierID
}

// CourierRating is set for Matched.
func (o Outcome) CourierRating() float64 {
	return o.courierRating
}

// EntryID is set for QueuedNew, AlreadyQueued and Expired.
func (o Outcome) EntryID() int64 {
	return o.entryID
}

// RetryAfter is set for Throttled.
func (o Outcome) RetryAfter() time.Duration {
	return o.retryAfter
}

// SecondsRemaining is RetryAfter in whole seconds.
func (o Outcome) SecondsRemaining() int {
	return int(o.retryAfter / time.Second)
}
