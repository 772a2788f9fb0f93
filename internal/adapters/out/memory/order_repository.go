package memory

import (
	"context"
	"slices"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/pkg/errs"
)

type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snap := aggregate.Snapshot()
	if _, err := stage(r.uow.orders, &r.uow.store.orders, "order", snap.ID, true, snap.Version, snap); err != nil {
		return err
	}
	r.uow.track(aggregate)
	return r.uow.autocommit()
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snap := aggregate.Snapshot()
	snap.Version = aggregate.Version() + 1
	if _, err := stage(r.uow.orders, &r.uow.store.orders, "order", snap.ID, false, aggregate.Version(), snap); err != nil {
		return err
	}
	r.uow.track(aggregate)
	if err := r.uow.autocommit(); err != nil {
		return err
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if p, ok := r.uow.orders[id]; ok {
		return order.RestoreOrder(p.snap)
	}
	snap, ok := r.uow.store.orders.load(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

func (r *OrderRepository) ListByRestaurant(_ context.Context, restaurantID kernel.UUID) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.RestaurantID.IsEqual(restaurantID)
	})
}

func (r *OrderRepository) ListByCustomer(_ context.Context, restaurantID kernel.UUID, mobile string) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.RestaurantID.IsEqual(restaurantID) && s.Customer.Mobile == mobile
	})
}

func (r *OrderRepository) list(match func(order.Snapshot) bool) ([]*order.Order, error) {
	var snaps []order.Snapshot
	r.uow.store.orders.scan(func(s order.Snapshot) {
		if match(s) {
			snaps = append(snaps, s)
		}
	})
	slices.SortFunc(snaps, func(a, b order.Snapshot) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	orders := make([]*order.Order, 0, len(snaps))
	for _, s := range snaps {
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
