// Package forecastcache keeps wait forecasts in Redis so repeated status polls
// for the same queue entry do not rerun the history queries.
package forecastcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "courier-matching:forecast:"

// Cache implements ports.ForecastCache.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New wraps client. A non-positive ttl is rejected since forecasts go stale.
func New(client redis.Cmdable, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("forecast cache ttl must be positive, got %s", ttl)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns found == false on a miss.
func (c *Cache) Get(ctx context.Context, entryID int64) (int, bool, error) {
	raw, err := c.client.Get(ctx, key(entryID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached forecast %q: %w", raw, err)
	}
	return seconds, true, nil
}

func (c *Cache) Set(ctx context.Context, entryID int64, seconds int) error {
	return c.client.Set(ctx, key(entryID), seconds, c.ttl).Err()
}

func key(entryID int64) string {
	return keyPrefix + strconv.FormatInt(entryID, 10)
}
