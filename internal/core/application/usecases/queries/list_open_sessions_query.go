package queries

import (
	"errors"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var ErrListOpenSessionsQueryIsNotConstructed = errors.New(
	"ListOpenSessionsQuery must be created via NewListOpenSessionsQuery constructor",
)

// ListOpenSessionsQuery lists the half-orders of a restaurant that can still be joined.
type ListOpenSessionsQuery struct {
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListOpenSessionsQuery(restaurantID kernel.UUID) (ListOpenSessionsQuery, error) {
	if restaurantID.IsZero() {
		return ListOpenSessionsQuery{}, errs.NewValueIsRequiredError("restaurant id")
	}
	return ListOpenSessionsQuery{restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOpenSessionsQuery) Validate() error {
	return q.guard.Validate(ErrListOpenSessionsQueryIsNotConstructed)
}

func (q ListOpenSessionsQuery) RestaurantID() kernel.UUID { return q.restaurantID }
