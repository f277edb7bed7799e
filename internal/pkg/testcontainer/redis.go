package testcontainer

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Redis is a running redis:7-alpine container with a connected client.
type Redis struct {
	Container testcontainers.Container
	Client    *redis.Client
}

// StartRedis runs a throwaway Redis.
func StartRedis(ctx context.Context) (*Redis, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	rd := &Redis{Container: container}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = rd.Terminate(ctx)
		return nil, err
	}

	rd.Client = redis.NewClient(&redis.Options{Addr: endpoint})
	if err := rd.Client.Ping(ctx).Err(); err != nil {
		_ = rd.Terminate(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rd, nil
}

// Terminate closes the client and stops the container.
func (r *Redis) Terminate(ctx context.Context) error {
	if r == nil || r.Container == nil {
		return nil
	}
	if r.Client != nil {
		_ = r.Client.Close()
	}
	return r.Container.Terminate(ctx)
}
