package queries

import (
	"context"
	"slices"

	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/ports"
)

// ListOrdersQueryHandler returns orders newest first. The result may lag concurrent
// writes by one transaction.
type ListOrdersQueryHandler struct {
	orders ports.OrderReader
}

func NewListOrdersQueryHandler(orders ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		found []*order.Order
		err   error
	)
	if query.CustomerMobile() != "" {
		found, err = h.orders.ListByCustomer(ctx, query.RestaurantID(), query.CustomerMobile())
	} else {
		found, err = h.orders.ListByRestaurant(ctx, query.RestaurantID())
	}
	if err != nil {
		return nil, err
	}

	result := make([]OrderResponse, 0, len(found))
	for _, o := range found {
		result = append(result, NewOrderResponse(o))
	}
	slices.SortStableFunc(result, newestOrdersFirst)
	return result, nil
}
