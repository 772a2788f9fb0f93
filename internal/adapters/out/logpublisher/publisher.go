// Package logpublisher is the event publisher used when no broker is configured:
// every outbox message is written to the log and counted as delivered.
package logpublisher

import (
	"context"
	"log/slog"

	"halforder/internal/core/ports"
)

type Publisher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "log_publisher")}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_id", msg.ID.String(),
		"event_type", msg.EventType,
		"aggregate_id", msg.AggregateID.String(),
		"occurred_at", msg.OccurredAt,
		"payload", string(msg.Payload),
	)
	return nil
}

func (p *Publisher) Close() error {
	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
