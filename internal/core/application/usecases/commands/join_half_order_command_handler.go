package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/domain/services"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// JoinHalfOrderCommandHandler performs the join: it creates the joining half-order
// and moves the session, the owning order and the new order to MATCHED in one
// transaction.
//
// Every write is a compare-and-set on the record version, so of several concurrent
// joins on one session exactly one commits. Losers re-read the session and get
// session.ErrAlreadyMatched or session.ErrExpired.
type JoinHalfOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	matcher    services.HalfOrderMatcher
	now        func() time.Time
	logger     *slog.Logger
}

// NewJoinHalfOrderCommandHandler builds the handler that pairs a joiner with an open session.
func NewJoinHalfOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	now func() time.Time,
	logger *slog.Logger,
) JoinHalfOrderCommandHandler {
	return JoinHalfOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		matcher:    services.NewHalfOrderMatcher(),
		now:        now,
		logger:     logger.With("component", "join_half_order"),
	}
}

func (h *JoinHalfOrderCommandHandler) Handle(ctx context.Context, cmd JoinHalfOrderCommand) (_ *order.Order, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "JoinHalfOrder", attribute.String("session.id", cmd.SessionID().String()))
	defer func() { endSpan(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	orderRepo := uow.OrderRepository()

	s, err := sessionRepo.Get(ctx, cmd.SessionID())
	if err != nil {
		return nil, err
	}

	now := h.now()
	if err = s.ValidateJoin(cmd.TableID(), now); err != nil {
		return nil, err
	}

	table, err := lookupTable(ctx, h.catalog, s.RestaurantID(), cmd.TableID())
	if err != nil {
		return nil, err
	}

	line, err := priceLine(ctx, h.catalog, s.RestaurantID(), s.MenuItemID(), order.Half)
	if err != nil {
		return nil, err
	}

	joiner, err := order.NewOrder(
		kernel.NewUUID(),
		s.RestaurantID(),
		table,
		order.Customer{Name: cmd.CustomerName(), Mobile: cmd.CustomerMobile()},
		[]order.LineItem{line},
		now,
	)
	if err != nil {
		return nil, err
	}

	owner, err := orderRepo.Get(ctx, s.OrderID())
	if err != nil {
		return nil, err
	}
	if owner.Status() != order.Open {
		// A sweep or staff change committed after the session was read.
		return nil, h.lostRace(ctx, uow, cmd.SessionID(), now, errs.NewVersionIsInvalidError("order"))
	}

	if err = h.matcher.Join(s, owner, joiner, now); err != nil {
		return nil, err
	}

	if err = sessionRepo.Update(ctx, s); err != nil {
		return nil, h.lostRace(ctx, uow, cmd.SessionID(), now, err)
	}
	if err = orderRepo.Update(ctx, owner); err != nil {
		return nil, h.lostRace(ctx, uow, cmd.SessionID(), now, err)
	}
	if err = orderRepo.Add(ctx, joiner); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, h.lostRace(ctx, uow, cmd.SessionID(), now, err)
	}

	h.logger.InfoContext(ctx, "half-order matched",
		"session_id", s.ID().String(),
		"order_id", owner.ID().String(),
		"joining_order_id", joiner.ID().String(),
		"tables", owner.Table().Number+"/"+joiner.Table().Number,
	)
	return joiner, nil
}

// lostRace turns a failed compare-and-set into the outcome the caller can act on
// by looking at what the winner left behind.
func (h *JoinHalfOrderCommandHandler) lostRace(
	ctx context.Context,
	uow OrderUoW,
	sessionID kernel.UUID,
	now time.Time,
	cause error,
) error {
	if !errors.Is(cause, errs.ErrVersionIsInvalid) {
		return cause
	}

	current, err := uow.SessionRepository().Get(ctx, sessionID)
	if err != nil {
		return errors.Join(cause, err)
	}

	switch {
	case current.Status() == session.Matched:
		return session.ErrAlreadyMatched
	case current.Status() == session.Expired, current.IsExpiredAt(now):
		return session.ErrExpired
	default:
		return cause
	}
}
