package ports

import "context"

// EventPublisher delivers outbox messages to a broker. Publish must be safe to
// retry: consumers see at-least-once delivery keyed by OutboxMessage.ID.
type EventPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
	Close() error
}
