package kernel

import (
	"fmt"

	"matching/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating the zero UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString or UUIDFromGoogle")

// UUID identifies requesters and couriers. Both ids are issued by the account
// service and are opaque to matching; the only operations the domain needs are
// parsing, comparison and rendering.
//
// The zero value is invalid.
//
// Example:
//
//	requesterID, err := kernel.UUIDFromString(c.Param("requesterId"))
//	if err != nil {
//	    return err
//	}
//	cmd, err := commands.NewFindCourierCommand(requesterID)
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn or hyphen-less forms.
// The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUIDFromGoogle(id)
}

// UUIDFromGoogle wraps a github.com/google/uuid value, typically one read back
// from a gorm DTO column. The nil UUID is rejected.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	wrapped := UUID{id: id}
	if err := wrapped.Validate(); err != nil {
		return UUID{}, err
	}
	return wrapped, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Google returns the underlying uuid.UUID for persistence adapters.
func (u UUID) Google() uuid.UUID {
	return u.id
}

// IsEqual reports whether both values hold the same identifier.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// MarshalText renders the UUID for JSON payloads and event keys.
func (u UUID) MarshalText() ([]byte, error) {
	return u.id.MarshalText()
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
