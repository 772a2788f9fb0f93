// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"halforder/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Header keys set on every message.
const (
	HeaderEventType = "event-type"
	HeaderEventID   = "event-id"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes each outbox message synchronously. The key is the aggregate id,
// so the events of one order or session stay in partition order.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AggregateID.String()),
		Value: msg.Payload,
		Time:  msg.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(msg.EventType)},
			{Key: HeaderEventID, Value: []byte(msg.ID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", msg.EventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ ports.EventPublisher = (*Publisher)(nil)
