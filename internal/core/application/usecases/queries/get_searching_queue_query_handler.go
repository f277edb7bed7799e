package queries

import (
	"context"
	"time"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSearchingQueueQueryHandler reads the Searching part of users_queue.
type GetSearchingQueueQueryHandler struct {
	db *gorm.DB
}

// NewGetSearchingQueueQueryHandler creates the handler.
func NewGetSearchingQueueQueryHandler(db *gorm.DB) GetSearchingQueueQueryHandler {
	return GetSearchingQueueQueryHandler{db: db}
}

// Handle returns the waiting entries, head of the queue first.
func (h GetSearchingQueueQueryHandler) Handle(
	ctx context.Context,
	query GetSearchingQueueQuery,
) ([]GetSearchingQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetSearchingQueueQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			requester_id,
			created_at
		FROM users_queue
		WHERE status = ?
		ORDER BY id
	`, queue.Searching.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetSearchingQueueQueryResponse
		var requesterID uuid.UUID
		var createdAt time.Time

		if err = rows.Scan(&entry.EntryID, &requesterID, &createdAt); err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromGoogle(requesterID)
		if idErr != nil {
			return nil, idErr
		}
		entry.RequesterID = id
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
