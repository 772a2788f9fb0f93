// Package rabbitmq publishes outbox messages to a durable topic exchange. The
// routing key is the event type, e.g. "session.matched".
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"halforder/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *slog.Logger
}

// Dial connects, retrying a few times while the broker starts, and declares the
// exchange.
func Dial(ctx context.Context, url, exchange string, logger *slog.Logger) (*Publisher, error) {
	logger = logger.With("component", "rabbitmq_publisher")

	const maxAttempts = 5
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		p, err := connect(url, exchange, logger)
		if err == nil {
			return p, nil
		}
		lastErr = err

		wait := time.Duration(attempt) * 2 * time.Second
		logger.WarnContext(ctx, "rabbitmq connection failed", "attempt", attempt, "retry_in", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", maxAttempts, lastErr)
}

func connect(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.ch.PublishWithContext(ctx, p.exchange, msg.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Type:         msg.EventType,
		Timestamp:    msg.OccurredAt,
		Headers:      amqp.Table{"aggregate_id": msg.AggregateID.String()},
		Body:         msg.Payload,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", msg.EventType, err)
	}

	p.logger.DebugContext(ctx, "event published",
		"exchange", p.exchange, "routing_key", msg.EventType, "size", len(msg.Payload))
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if connErr := p.conn.Close(); err == nil {
			err = connErr
		}
	}
	return err
}

var _ ports.EventPublisher = (*Publisher)(nil)
