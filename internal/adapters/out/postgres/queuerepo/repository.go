package queuerepo

import (
	"context"
	"errors"
	"fmt"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/queue"
	"matching/internal/core/ports"
	"matching/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormQueueRepository implements ports.QueueRepository using GORM.
type GormQueueRepository struct {
	db *gorm.DB
}

// NewGormQueueRepository creates a repository over db, which may be a transaction.
func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// Add inserts a Searching entry. The returned entry carries the assigned id.
// A second Searching row for the same requester violates
// ux_users_queue_searching and is reported as
// ports.ErrRequesterIsAlreadySearching. Inside a transaction the violation
// aborts it, so callers roll back before reading again.
func (r *GormQueueRepository) Add(ctx context.Context, entry *queue.Entry) (*queue.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if entry.Status() != queue.Searching {
		return nil, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("only %s entries can be added, got %s", queue.Searching, entry.Status()))
	}

	dto := fromDomain(entry)
	dto.ID = 0
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: %w", ports.ErrRequesterIsAlreadySearching, err)
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// ListByStatus returns entries in sequence order.
func (r *GormQueueRepository) ListByStatus(ctx context.Context, status queue.Status) ([]*queue.Entry, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", status.String()).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// UpdateStatus writes the entry's terminal status only if the row is still
// Searching. applied reports whether the row changed.
//
// Example:
//
//	staged := entry.Clone()
//	if err := staged.Expire(now); err != nil {
//	    return err
//	}
//	applied, err := repo.UpdateStatus(ctx, staged)
func (r *GormQueueRepository) UpdateStatus(ctx context.Context, entry *queue.Entry) (bool, error) {
	if err := entry.Validate(); err != nil {
		return false, err
	}
	if !entry.Status().IsTerminal() {
		return false, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a terminal status", entry.Status()))
	}

	result := r.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ? AND status = ?", entry.ID(), queue.Searching.String()).
		Updates(map[string]any{
			"status":     entry.Status().String(),
			"updated_at": entry.UpdatedAt(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// LatestForRequester returns the requester's entry with the greatest id.
func (r *GormQueueRepository) LatestForRequester(ctx context.Context, requesterID kernel.UUID) (*queue.Entry, error) {
	if err := requesterID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID.Google()).
		Order("id DESC").
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("requesterId", requesterID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// RecentCompletedAtOrBefore returns the newest Completed entries up to entryID.
func (r *GormQueueRepository) RecentCompletedAtOrBefore(
	ctx context.Context,
	entryID int64,
	limit int,
) ([]*queue.Entry, error) {
	if limit <= 0 {
		return []*queue.Entry{}, nil
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND id <= ?", queue.Completed.String(), entryID).
		Order("id DESC").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// SearchingBefore returns the Searching entries ahead of entryID.
func (r *GormQueueRepository) SearchingBefore(ctx context.Context, entryID int64) ([]*queue.Entry, error) {
	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND id < ?", queue.Searching.String(), entryID).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}
