// Package queries contains the read operations of the matching service.
// Listing queries read the tables directly with raw SQL; the wait status query
// goes through the queue repository because it runs the forecaster.
package queries

import (
	"errors"

	"matching/internal/core/domain/model/kernel"
	"matching/internal/pkg/guard"
)

var (
	ErrGetAllCouriersQueryIsNotConstructed = errors.New(
		"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
	)
)

// GetAllCouriersQuery lists the courier registry for operators.
//
// Example:
//
//	couriers, err := handler.Handle(ctx, NewGetAllCouriersQuery())
//	if err != nil {
//	    return err
//	}
//	for _, c := range couriers {
//	    fmt.Printf("%s free=%t rating=%.1f\n", c.ID, c.IsFree, c.Rating)
//	}
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery creates the query.
func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse is one courier of the registry.
type GetAllCouriersQueryResponse struct {
	ID     kernel.UUID
	IsFree bool
	Rating float64
}
