package services

import (
	"time"

	"matching/internal/core/domain/model/queue"
	"matching/internal/pkg/errs"
)

// RetryPolicy enforces a cool-down between two queue attempts of the same
// requester, whatever the outcome of the previous attempt was.
type RetryPolicy struct {
	window time.Duration
}

// NewRetryPolicy creates a policy with the given cool-down window.
func NewRetryPolicy(window time.Duration) (RetryPolicy, error) {
	if window < 0 {
		return RetryPolicy{}, errs.NewValueIsInvalidError("retry window")
	}
	return RetryPolicy{window: window}, nil
}

// RetryAfter returns how long the requester still has to wait before last may
// be followed by a new attempt, in whole seconds. Zero means a new attempt is
// allowed now.
func (p RetryPolicy) RetryAfter(last *queue.Entry, now time.Time) time.Duration {
	elapsed := wholeSeconds(last.Age(now))
	window := wholeSeconds(p.window)
	if elapsed >= window {
		return 0
	}
	return time.Duration(window-elapsed) * time.Second
}
