// Package services holds the stateless domain logic of matching that does not
// belong to a single aggregate:
//   - WaitForecaster: the ETA estimate for a requester still in the queue
//   - RetryPolicy: the cool-down between two queue attempts of one requester
//
// Both take the current time as an argument so callers decide which clock is used.
package services
