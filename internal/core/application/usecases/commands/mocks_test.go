package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"matching/internal/core/application/usecases/commands"
	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
	"matching/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type MockQueueRepository struct{ mock.Mock }

func (m *MockQueueRepository) Add(ctx context.Context, entry *queue.Entry) (*queue.Entry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Entry), args.Error(1)
}

func (m *MockQueueRepository) ListByStatus(ctx context.Context, status queue.Status) ([]*queue.Entry, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queue.Entry), args.Error(1)
}

func (m *MockQueueRepository) UpdateStatus(ctx context.Context, entry *queue.Entry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockQueueRepository) LatestForRequester(ctx context.Context, requesterID kernel.UUID) (*queue.Entry, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Entry), args.Error(1)
}

func (m *MockQueueRepository) RecentCompletedAtOrBefore(ctx context.Context, entryID int64, limit int) ([]*queue.Entry, error) {
	args := m.Called(ctx, entryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queue.Entry), args.Error(1)
}

func (m *MockQueueRepository) SearchingBefore(ctx context.Context, entryID int64) ([]*queue.Entry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queue.Entry), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) FindOneFree(ctx context.Context) (*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) UpdateAvailability(ctx context.Context, c *courier.Courier) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourierRepository) UpdateRating(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) QueueRepository() ports.QueueRepository {
	args := m.Called()
	return args.Get(0).(ports.QueueRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyExpired(ctx context.Context, requesterID kernel.UUID) error {
	args := m.Called(ctx, requesterID)
	return args.Error(0)
}

func (m *MockNotifier) NotifyMatched(ctx context.Context, requesterID, courierID kernel.UUID, rating float64) error {
	args := m.Called(ctx, requesterID, courierID, rating)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func searchingEntry(t *testing.T, id int64, requesterID kernel.UUID, createdAt time.Time) *queue.Entry {
	t.Helper()
	e, err := queue.RestoreEntry(id, requesterID, queue.Searching, createdAt, createdAt)
	require.NoError(t, err)
	return e
}

func freeCourier(t *testing.T, rating float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), rating)
	require.NoError(t, err)
	return c
}

func entryWith(id int64, status queue.Status) any {
	return mock.MatchedBy(func(e *queue.Entry) bool {
		return e.ID() == id && e.Status() == status
	})
}
