// Package guard holds the constructor guard embedded by commands, queries and
// aggregates that must only be built through their New* functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as produced by its constructor. The zero value
// is "not constructed", so a struct literal that skips the constructor fails
// Validate.
//
// Example:
//
//	var ErrFindCourierCommandIsNotConstructed = errors.New("FindCourierCommand must be created via NewFindCourierCommand")
//
//	type FindCourierCommand struct {
//	    requesterID kernel.UUID
//	    guard       guard.ConstructorGuard
//	}
//
//	func (c FindCourierCommand) Validate() error {
//	    return c.guard.Validate(ErrFindCourierCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owning value was not built by its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
