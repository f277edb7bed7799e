package services

import (
	"time"

	"matching/internal/core/domain/model/queue"
	"matching/internal/pkg/errs"
)

const (
	// DefaultSmoothingFactor weights the newest observation in the exponential average.
	DefaultSmoothingFactor = 0.2

	// DefaultFallbackForecast is reported when neither history nor queue state gives a signal.
	DefaultFallbackForecast = 180 * time.Second

	// HistoryDepth is how many completed entries feed the smoothing series.
	HistoryDepth = 10
)

// WaitForecaster estimates how many more seconds a Searching requester will wait.
//
// Two signals are used:
//   - history: service durations of up to HistoryDepth completed entries at or
//     before the target position, folded into an exponential moving average
//     (S0 = d0, Si = alpha*di + (1-alpha)*Si-1). Entries still waiting ahead of the
//     target that have already waited longer than the running average are
//     folded in too, oldest first, stopping at the first one that has not.
//   - no history: the head's current wait multiplied by the number of people up
//     to and including the target.
//
// With history, the target's own elapsed wait is subtracted when that leaves a
// positive remainder. The result is never negative.
//
// Example:
//
//	forecaster := services.NewWaitForecaster()
//	seconds := forecaster.Forecast(entry, history, ahead, clock.Now())
type WaitForecaster struct {
	alpha    float64
	fallback time.Duration
}

// NewWaitForecaster returns a forecaster with the production parameters.
func NewWaitForecaster() WaitForecaster {
	return WaitForecaster{alpha: DefaultSmoothingFactor, fallback: DefaultFallbackForecast}
}

// NewWaitForecasterWithParams returns a forecaster with a custom smoothing
// factor in (0, 1] and a non-negative fallback.
func NewWaitForecasterWithParams(alpha float64, fallback time.Duration) (WaitForecaster, error) {
	if alpha <= 0 || alpha > 1 {
		return WaitForecaster{}, errs.NewValueIsOutOfRangeError("alpha", alpha, 0, 1)
	}
	if fallback < 0 {
		return WaitForecaster{}, errs.NewValueIsInvalidError("fallback")
	}
	return WaitForecaster{alpha: alpha, fallback: fallback}, nil
}

// Forecast returns the estimate in whole seconds.
//
// history must be newest first (as returned by RecentCompletedAtOrBefore) and
// ahead must be the Searching entries with a smaller sequence id than target,
// oldest first (as returned by SearchingBefore).
func (f WaitForecaster) Forecast(target *queue.Entry, history, ahead []*queue.Entry, now time.Time) int {
	if len(history) == 0 {
		return f.extrapolate(ahead, now)
	}

	smoothed := float64(wholeSeconds(history[0].ServiceDuration()))
	for _, entry := range history[1:] {
		smoothed = f.smooth(smoothed, wholeSeconds(entry.ServiceDuration()))
	}

	// Only the leading run of unusually long waits lengthens the estimate.
	for _, entry := range ahead {
		waited := wholeSeconds(entry.Age(now))
		if float64(waited) <= smoothed {
			break
		}
		smoothed = f.smooth(smoothed, waited)
	}

	forecast := int(smoothed)
	if forecast < 0 {
		forecast = 0
	}

	remaining := forecast - int(wholeSeconds(target.Age(now)))
	if remaining > 0 {
		return remaining
	}
	return forecast
}

func (f WaitForecaster) extrapolate(ahead []*queue.Entry, now time.Time) int {
	if len(ahead) == 0 {
		return int(wholeSeconds(f.fallback))
	}
	headWait := wholeSeconds(ahead[0].Age(now))
	return int(headWait) * (len(ahead) + 1)
}

func (f WaitForecaster) smooth(previous float64, observed int64) float64 {
	return f.alpha*float64(observed) + (1-f.alpha)*previous
}

func wholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
