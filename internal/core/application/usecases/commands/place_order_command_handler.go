package commands

import (
	"context"
	"log/slog"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/services"
	"halforder/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// PlaceOrderCommandHandler creates an order in OPEN status. When the order is a single
// half portion it also opens a half-order session in the same transaction.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	matcher    services.HalfOrderMatcher
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewPlaceOrderCommandHandler builds the handler. Half orders open a session lasting sessionTTL.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	sessionTTL time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		matcher:    services.NewHalfOrderMatcher(),
		sessionTTL: sessionTTL,
		now:        now,
		logger:     logger.With("component", "place_order"),
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "PlaceOrder",
		attribute.String("restaurant.id", cmd.RestaurantID().String()),
		attribute.Int("order.items", len(cmd.Items())),
	)
	defer func() { endSpan(span, err) }()

	table, err := lookupTable(ctx, h.catalog, cmd.RestaurantID(), cmd.TableID())
	if err != nil {
		return nil, err
	}

	lines := make([]order.LineItem, 0, len(cmd.Items()))
	for _, item := range cmd.Items() {
		line, lineErr := priceLine(ctx, h.catalog, cmd.RestaurantID(), item.MenuItemID, item.Portion)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	now := h.now()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.RestaurantID(),
		table,
		order.Customer{Name: cmd.CustomerName(), Mobile: cmd.CustomerMobile()},
		lines,
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if o.IsHalfOrder() {
		s, openErr := h.matcher.Open(o, h.sessionTTL, now)
		if openErr != nil {
			return nil, openErr
		}
		if err = uow.SessionRepository().Add(ctx, s); err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.String("session.id", s.ID().String()))
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", o.ID().String(),
		"table", o.Table().Number,
		"total", o.Total().String(),
		"half_order", o.IsHalfOrder(),
	)
	return o, nil
}
