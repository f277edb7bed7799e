// Package commands contains the operations that change queue or courier state.
// Every command is a constructed value plus a handler with a Handle method;
// handlers open a unit of work, act on the aggregates and commit.
package commands

import (
	"context"

	"matching/internal/core/ports"
)

// Unit of Work interfaces used by the command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// QueueRepoFactory provides access to the queue repository within a transaction.
	QueueRepoFactory interface {
		QueueRepository() ports.QueueRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// UoW manages transactions spanning the queue and the courier registry.
	// Completing an entry and claiming its courier always happen in one UoW.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   queueRepo := uow.QueueRepository()
	//   courierRepo := uow.CourierRepository()
	//   // ... conditional writes
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		QueueRepoFactory
		CourierRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
