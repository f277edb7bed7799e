package main

import (
	"context"
	"testing"

	"matching/cmd"
	"matching/internal/pkg/testcontainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, values map[string]string) cmd.Config {
	t.Helper()
	config, err := cmd.LoadConfig(func(key string) string { return values[key] })
	require.NoError(t, err)
	return config
}

func TestRun_UnreachableDatabaseReturnsError(t *testing.T) {
	config := loadConfig(t, map[string]string{
		"DB_HOST":   "127.0.0.1",
		"DB_PORT":   "1",
		"DB_USER":   "nobody",
		"DB_NAME":   "matching",
		"LOG_LEVEL": "error",
	})

	err := run(config)

	require.Error(t, err)
	assert.ErrorContains(t, err, "error connecting to database")
}

func TestRun_JobStartFailureReturnsAfterCleanup(t *testing.T) {
	ctx := context.Background()
	pg, err := testcontainer.StartPostgres(ctx)
	require.NoError(t, err)
	defer func() { require.NoError(t, pg.Terminate(ctx)) }()

	host, err := pg.Container.Host(ctx)
	require.NoError(t, err)
	port, err := pg.Container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	config := loadConfig(t, map[string]string{
		"DB_HOST":              host,
		"DB_PORT":              port.Port(),
		"DB_USER":              "testuser",
		"DB_PASSWORD":          "testpass",
		"DB_NAME":              "testdb",
		"GRPC_ORDERS_ADDRESS":  "127.0.0.1:1",
		"KAFKA_BROKERS":        "127.0.0.1:1",
		"REDIS_ADDR":           "127.0.0.1:1",
		"QUEUE_DEPTH_SCHEDULE": "not a schedule",
		"HTTP_PORT":            "0",
		"LOG_LEVEL":            "error",
	})

	err = run(config)

	require.Error(t, err)
	assert.ErrorContains(t, err, "error starting jobs")
}
