package outboxrepo

import (
	"context"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOutboxRepository implements ports.OutboxRepository. Add runs on the
// transaction of the business change, which makes the event durable exactly when the
// change is.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(events))
	for _, e := range events {
		msg, err := ports.NewOutboxMessage(e)
		if err != nil {
			return err
		}
		dtos = append(dtos, fromPort(msg))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

func (r *GormOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	q := r.db.WithContext(ctx).Where("published_at IS NULL").Order("attempts ASC, occurred_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []MessageDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toPort(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, id kernel.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"published_at": at.UTC(),
		"attempts":     gorm.Expr("attempts + 1"),
	})
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID, reason string) error {
	return r.update(ctx, id, map[string]any{
		"last_error": reason,
		"attempts":   gorm.Expr("attempts + 1"),
	})
}

func (r *GormOutboxRepository) update(ctx context.Context, id kernel.UUID, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&MessageDTO{}).Where("id = ?", id.Bytes()).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox message", id.String())
	}
	return nil
}
