package ports

import (
	"context"
)

// UnitOfWorkFactory creates isolated units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups queue and courier writes into one database transaction.
// Repositories obtained before Begin run outside any transaction.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// QueueRepository returns a QueueRepository bound to the current transaction.
	QueueRepository() QueueRepository

	// CourierRepository returns a CourierRepository bound to the current transaction.
	CourierRepository() CourierRepository
}
