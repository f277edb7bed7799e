// Package courier provides the Courier aggregate of the matching domain.
//
// A courier is either free or busy. The matcher and request intake occupy a
// free courier when they bind it to a requester; releasing it happens when the
// delivery is over, which is reported by another service. The rating is kept
// here only so that it can be forwarded to the requester together with a
// match.
package courier
