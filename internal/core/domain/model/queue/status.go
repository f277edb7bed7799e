package queue

import (
	"fmt"

	"matching/internal/pkg/errs"
)

// Status is the lifecycle state of a queue entry.
//
// State transitions:
//
//	Searching ──┬──> Completed
//	            └──> Expired
//
// Completed and Expired are terminal. Nothing ever moves an entry back to
// Searching.
type Status int

const (
	// Unknown is the zero value and is never persisted.
	Unknown Status = iota

	// Searching entries are waiting for a courier.
	Searching

	// Completed entries were bound to a courier.
	Completed

	// Expired entries waited longer than the configured maximum.
	Expired
)

var statusNames = map[Status]string{
	Searching: "SEARCHING",
	Completed: "COMPLETED",
	Expired:   "EXPIRED",
}

// ParseStatus maps the persisted representation back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a queue status", s))
}

// String returns the persisted name ("SEARCHING", "COMPLETED", "EXPIRED") or
// "UNKNOWN" for anything else.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Expired
}

// Complete transitions Searching to Completed.
func (s Status) Complete() (Status, error) {
	if s != Searching {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
	return Completed, nil
}

// Expire transitions Searching to Expired.
func (s Status) Expire() (Status, error) {
	if s != Searching {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to expire", s),
		)
	}
	return Expired, nil
}
