// Package queuerepo persists the courier queue in the users_queue table.
package queuerepo

import (
	"time"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"

	"github.com/google/uuid"
)

// EntryDTO is one row of users_queue. The id column is the queue sequence.
// ux_users_queue_searching allows one SEARCHING row per requester.
type EntryDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_users_queue_searching,where:status = 'SEARCHING'"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (EntryDTO) TableName() string {
	return "users_queue"
}

func fromDomain(entry *queue.Entry) EntryDTO {
	return EntryDTO{
		ID:          entry.ID(),
		RequesterID: entry.RequesterID().Google(),
		Status:      entry.Status().String(),
		CreatedAt:   entry.CreatedAt(),
		UpdatedAt:   entry.UpdatedAt(),
	}
}

func toDomain(dto EntryDTO) (*queue.Entry, error) {
	requesterID, err := kernel.UUIDFromGoogle(dto.RequesterID)
	if err != nil {
		return nil, err
	}

	status, err := queue.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return queue.RestoreEntry(dto.ID, requesterID, status, dto.CreatedAt.UTC(), dto.UpdatedAt.UTC())
}

func toDomainList(dtos []EntryDTO) ([]*queue.Entry, error) {
	entries := make([]*queue.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
