package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

type expireOutcome int

const (
	outcomeExpired expireOutcome = iota
	outcomeSkipped
)

// ExpireSessionsCommandHandler is the sweeper. Each overdue session is expired in its
// own transaction together with its OPEN owning order. A failure on one session is
// logged and the pass moves on; the session is picked up again next pass.
type ExpireSessionsCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
	logger     *slog.Logger
}

// NewExpireSessionsCommandHandler builds the sweeper. now is read once per pass.
func NewExpireSessionsCommandHandler(uowFactory OrderUoWFactory, now func() time.Time, logger *slog.Logger) ExpireSessionsCommandHandler {
	return ExpireSessionsCommandHandler{
		uowFactory: uowFactory,
		now:        now,
		logger:     logger.With("component", "session_sweeper"),
	}
}

func (h *ExpireSessionsCommandHandler) Handle(ctx context.Context, cmd ExpireSessionsCommand) (_ ExpireSessionsResult, err error) {
	var result ExpireSessionsResult
	if err = cmd.Validate(); err != nil {
		return result, err
	}

	ctx, span := startSpan(ctx, "ExpireSessions", attribute.Int("batch.size", cmd.BatchSize()))
	defer func() {
		span.SetAttributes(
			attribute.Int("sessions.scanned", result.Scanned),
			attribute.Int("sessions.expired", result.Expired),
			attribute.Int("sessions.failed", result.Failed),
		)
		endSpan(span, err)
	}()

	now := h.now()
	sessions := h.uowFactory.Create().SessionRepository()

	// Sessions that fail stay OPEN and keep the head of the deadline order, so the
	// pass pages past them until a batch worth of sessions has been settled.
	var after *ports.ExpiryCursor
	for {
		overdue, err := sessions.ListExpired(ctx, now, after, cmd.BatchSize())
		if err != nil {
			return result, err
		}

		for _, s := range overdue {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			result.Scanned++
			outcome, expireErr := h.expireOne(ctx, s.ID(), now)
			switch {
			case expireErr != nil:
				result.Failed++
				h.logger.ErrorContext(ctx, "failed to expire session", "session_id", s.ID().String(), "error", expireErr)
			case outcome == outcomeSkipped:
				result.Skipped++
			default:
				result.Expired++
				h.logger.InfoContext(ctx, "session expired", "session_id", s.ID().String(), "order_id", s.OrderID().String())
			}
		}

		if len(overdue) < cmd.BatchSize() || result.Expired+result.Skipped >= cmd.BatchSize() {
			break
		}
		after = ports.ExpiryCursorOf(overdue[len(overdue)-1])
	}

	return result, nil
}

func (h *ExpireSessionsCommandHandler) expireOne(ctx context.Context, sessionID kernel.UUID, now time.Time) (expireOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return outcomeSkipped, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	orderRepo := uow.OrderRepository()

	s, err := sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return outcomeSkipped, err
	}
	if s.Status() != session.Open || !s.IsExpiredAt(now) {
		return outcomeSkipped, nil
	}

	if err = s.Expire(now); err != nil {
		return outcomeSkipped, err
	}
	if err = sessionRepo.Update(ctx, s); err != nil {
		return lostRaceOutcome(err)
	}

	o, err := orderRepo.Get(ctx, s.OrderID())
	if err != nil {
		return outcomeSkipped, err
	}
	if o.Status() == order.Open {
		if err = o.Expire(now); err != nil {
			return outcomeSkipped, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return lostRaceOutcome(err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return lostRaceOutcome(err)
	}
	return outcomeExpired, nil
}

// lostRaceOutcome treats a stale write as "someone else already moved this record".
func lostRaceOutcome(err error) (expireOutcome, error) {
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		return outcomeSkipped, nil
	}
	return outcomeSkipped, err
}
