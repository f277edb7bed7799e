// Package kernel holds the value objects shared by every aggregate of the
// matching domain. Today that is only UUID, the opaque identifier used for
// requesters and couriers.
package kernel
