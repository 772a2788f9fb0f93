package queries

import (
	"errors"
	"strings"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the orders of a restaurant, optionally only those placed
// with one customer mobile number.
//
// Example:
//
//	query, err := NewListOrdersQuery(restaurantID, "9876543210")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	restaurantID   kernel.UUID
	customerMobile string

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(restaurantID kernel.UUID, customerMobile string) (ListOrdersQuery, error) {
	if restaurantID.IsZero() {
		return ListOrdersQuery{}, errs.NewValueIsRequiredError("restaurant id")
	}
	return ListOrdersQuery{
		restaurantID:   restaurantID,
		customerMobile: strings.TrimSpace(customerMobile),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) RestaurantID() kernel.UUID { return q.restaurantID }
func (q ListOrdersQuery) CustomerMobile() string    { return q.customerMobile }
