// Package testcontainer starts disposable infrastructure for integration tests.
package testcontainer

import (
	"context"
	"time"

	adapter "matching/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Postgres is a running PostgreSQL container with a migrated schema.
type Postgres struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// StartPostgres runs postgres:15-alpine and migrates the service schema.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	pg := &Postgres{Container: container}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	db, err := adapter.Open(dsn)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}
	pg.DB = db

	if err := adapter.Migrate(db); err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	return pg, nil
}

// Truncate empties the service tables and restarts the queue sequence.
func (p *Postgres) Truncate() error {
	return p.DB.Exec("TRUNCATE TABLE users_queue, couriers RESTART IDENTITY").Error
}

// Terminate stops the container.
func (p *Postgres) Terminate(ctx context.Context) error {
	if p == nil || p.Container == nil {
		return nil
	}
	return p.Container.Terminate(ctx)
}
