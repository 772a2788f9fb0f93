// Package outboxrepo stores domain events in the outbox_messages table.
package outboxrepo

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"

	"github.com/google/uuid"
)

type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:varchar(36);primaryKey"`
	AggregateID uuid.UUID  `gorm:"type:varchar(36);index"`
	EventType   string     `gorm:"size:64"`
	Payload     string     `gorm:"type:text"`
	OccurredAt  time.Time  `gorm:"index:idx_outbox_pending,priority:2"`
	PublishedAt *time.Time `gorm:"index:idx_outbox_pending,priority:1"`
	Attempts    int
	LastError   string `gorm:"type:text"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromPort(m ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:          m.ID.Bytes(),
		AggregateID: m.AggregateID.Bytes(),
		EventType:   m.EventType,
		Payload:     string(m.Payload),
		OccurredAt:  m.OccurredAt.UTC(),
		PublishedAt: m.PublishedAt,
		Attempts:    m.Attempts,
		LastError:   m.LastError,
	}
}

func toPort(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:          id,
		AggregateID: aggregateID,
		EventType:   dto.EventType,
		Payload:     []byte(dto.Payload),
		OccurredAt:  dto.OccurredAt,
		PublishedAt: dto.PublishedAt,
		Attempts:    dto.Attempts,
		LastError:   dto.LastError,
	}, nil
}
