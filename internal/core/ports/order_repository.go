package ports

import (
	"context"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
//
// Update is a compare-and-set on the aggregate version: it writes only if the stored
// version still equals aggregate.Version(), then increments it. A lost race returns
// *errs.VersionIsInvalidError and changes nothing.
type OrderRepository interface {
	// Add inserts a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes a changed order guarded by its version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	OrderReader
}

// OrderReader is the read side used by queries. Listings are newest first.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*order.Order, error)
	ListByCustomer(ctx context.Context, restaurantID kernel.UUID, customerMobile string) ([]*order.Order, error)
}
