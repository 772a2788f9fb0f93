package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"halforder/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event stored in the same transaction as the change that raised it.
type OutboxMessage struct {
	ID          kernel.UUID
	AggregateID kernel.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
	PublishedAt *time.Time
	Attempts    int
	LastError   string
}

// NewOutboxMessage serializes a domain event into an outbox message. The event's
// exported fields form the JSON payload.
func NewOutboxMessage(e kernel.DomainEvent) (OutboxMessage, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("marshal %s event: %w", e.EventType(), err)
	}
	return OutboxMessage{
		ID:          e.EventID(),
		AggregateID: e.AggregateID(),
		EventType:   e.EventType(),
		Payload:     payload,
		OccurredAt:  e.OccurredAt(),
	}, nil
}

type OutboxRepository interface {
	// Add stores events raised by aggregates saved in the current transaction.
	Add(ctx context.Context, events ...kernel.DomainEvent) error

	// ListUnpublished returns up to limit unpublished messages, fewest failed attempts
	// first and oldest first within equal attempts, so messages the broker keeps
	// rejecting sink behind fresh ones.
	ListUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error

	// MarkFailed records a failed publish attempt; the message stays unpublished.
	MarkFailed(ctx context.Context, id kernel.UUID, reason string) error
}
