// Package courierrepo persists the courier registry in the couriers table.
package courierrepo

import (
	"time"

	"matching/internal/core/domain/model/courier"
	"matching/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is one row of couriers.
type CourierDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsFree    bool      `gorm:"not null;index"`
	Rating    float64   `gorm:"type:double precision;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:     c.ID().Google(),
		IsFree: c.IsFree(),
		Rating: c.Rating(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.IsFree, dto.Rating)
}
