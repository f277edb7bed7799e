package ports

import (
	"context"
)

// ForecastCache keeps recently computed wait forecasts keyed by queue entry id.
// Entries age out after a TTL chosen by the implementation.
type ForecastCache interface {
	// Get returns the cached forecast in seconds and whether it was present.
	Get(ctx context.Context, entryID int64) (seconds int, found bool, err error)

	// Set stores a forecast.
	Set(ctx context.Context, entryID int64, seconds int) error
}
