package commands

import (
	"context"
	"log/slog"
	"time"

	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"

	"go.opentelemetry.io/otel/attribute"
)

// AdvanceOrderStatusCommandHandler applies staff status changes.
//
// When the order still owns an OPEN session and leaves OPEN (to PREPARING or
// CANCELLED) the session is closed in the same transaction, so nobody can join an
// order the kitchen has already taken or the counter has withdrawn. A matched
// partner order is left alone.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
	logger     *slog.Logger
}

// NewAdvanceOrderStatusCommandHandler builds the handler for counter status changes.
func NewAdvanceOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
	logger *slog.Logger,
) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		now:        now,
		logger:     logger.With("component", "advance_order_status"),
	}
}

func (h *AdvanceOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd AdvanceOrderStatusCommand,
) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "AdvanceOrderStatus",
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.target_status", cmd.Target().String()),
		attribute.String("caller.role", cmd.Role().String()),
	)
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	now := h.now()
	if err = o.Advance(cmd.Target(), cmd.Role(), now); err != nil {
		h.logger.WarnContext(ctx, "status change rejected",
			"order_id", o.ID().String(), "from", from.String(), "to", cmd.Target().String(), "error", err)
		return nil, err
	}

	// Sessions are written before orders in every handler, so concurrent
	// transactions lock rows in the same order.
	if from == order.Open && o.SessionID() != nil {
		if err = h.closeSession(ctx, uow, o, now); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(), "from", from.String(), "to", o.Status().String())
	return o, nil
}

func (h *AdvanceOrderStatusCommandHandler) closeSession(ctx context.Context, uow OrderUoW, o *order.Order, now time.Time) error {
	sessionRepo := uow.SessionRepository()
	s, err := sessionRepo.Get(ctx, *o.SessionID())
	if err != nil {
		return err
	}

	if s.Status() != session.Open || !s.OrderID().IsEqual(o.ID()) {
		return nil
	}

	if err = s.Close(now); err != nil {
		return err
	}
	return sessionRepo.Update(ctx, s)
}
