package commands

import (
	"context"
	"log/slog"
	"time"

	"halforder/internal/core/ports"

	"go.opentelemetry.io/otel/attribute"
)

// RelayOutboxCommandHandler publishes unpublished outbox messages oldest first.
// Each message is marked individually, so a broker outage leaves the rest of the
// batch for the next run. Delivery is at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// NewRelayOutboxCommandHandler builds the relay. Delivery is at least once.
func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	now func() time.Time,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        now,
		logger:     logger.With("component", "outbox_relay"),
	}
}

func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (_ RelayOutboxResult, err error) {
	var result RelayOutboxResult
	if err = cmd.Validate(); err != nil {
		return result, err
	}

	ctx, span := startSpan(ctx, "RelayOutbox", attribute.Int("batch.size", cmd.BatchSize()))
	defer func() {
		span.SetAttributes(attribute.Int("outbox.published", result.Published), attribute.Int("outbox.failed", result.Failed))
		endSpan(span, err)
	}()

	repo := h.uowFactory.Create().OutboxRepository()
	messages, err := repo.ListUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return result, err
	}

	for _, msg := range messages {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if pubErr := h.publisher.Publish(ctx, msg); pubErr != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "failed to publish outbox message",
				"message_id", msg.ID.String(), "event_type", msg.EventType, "attempt", msg.Attempts+1, "error", pubErr)
			if markErr := repo.MarkFailed(ctx, msg.ID, pubErr.Error()); markErr != nil {
				h.logger.ErrorContext(ctx, "failed to record publish failure", "message_id", msg.ID.String(), "error", markErr)
			}
			continue
		}

		if markErr := repo.MarkPublished(ctx, msg.ID, h.now()); markErr != nil {
			result.Failed++
			h.logger.ErrorContext(ctx, "failed to mark outbox message published", "message_id", msg.ID.String(), "error", markErr)
			continue
		}
		result.Published++
	}

	return result, nil
}
