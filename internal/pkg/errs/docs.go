// Package errs provides the typed errors shared by the matching service.
//
// Every error type wraps one sentinel so callers can classify failures with
// errors.Is without caring about the concrete type:
//   - ErrObjectNotFound: a queue entry or courier does not exist
//   - ErrValueIsInvalid: a value breaks a domain rule (for example a status transition)
//   - ErrValueIsOutOfRange: a numeric value is outside its allowed interval
//   - ErrValueIsRequired: a mandatory value is missing
//
// The inbound HTTP adapter relies on these sentinels to choose a status code.
package errs
