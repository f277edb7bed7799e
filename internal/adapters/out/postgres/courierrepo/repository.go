package courierrepo

import (
	"context"
	"errors"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/errs"

	"gorm.io/gorm"
)

// ErrCourierAlreadyRegistered is the cause reported when Add meets an existing id.
var ErrCourierAlreadyRegistered = errors.New("courier is already registered")

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a repository over db, which may be a transaction.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("courierId", ErrCourierAlreadyRegistered)
		}
		return err
	}

	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courierId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindOneFree picks the best rated free courier, breaking ties by id.
//
// Example:
//
//	c, err := repo.FindOneFree(ctx)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // everyone is busy, the requester has to queue
//	}
func (r *GormCourierRepository) FindOneFree(ctx context.Context) (*courier.Courier, error) {
	var dto CourierDTO
	if err := r.db.WithContext(ctx).
		Where("is_free = ?", true).
		Order("rating DESC").
		Order("id").
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundErrorWithCause("courier", "free", err)
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateAvailability flips is_free only when the row still holds the opposite
// value.
func (r *GormCourierRepository) UpdateAvailability(ctx context.Context, aggregate *courier.Courier) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND is_free = ?", aggregate.ID().Google(), !aggregate.IsFree()).
		Update("is_free", aggregate.IsFree())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// UpdateRating saves the courier's rating.
func (r *GormCourierRepository) UpdateRating(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", aggregate.ID().Google()).
		Update("rating", aggregate.Rating())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courierId", aggregate.ID().String())
	}

	return nil
}
