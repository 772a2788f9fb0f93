package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"
)

type OutboxRepository struct {
	uow *UnitOfWork
}

// Add stages events for the current transaction, or appends them at once outside one.
func (r *OutboxRepository) Add(_ context.Context, events ...kernel.DomainEvent) error {
	r.uow.events = append(r.uow.events, events...)
	return r.uow.autocommit()
}

func (r *OutboxRepository) ListUnpublished(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	log := &r.uow.store.outbox
	log.mu.Lock()
	defer log.mu.Unlock()

	result := make([]ports.OutboxMessage, 0)
	for _, m := range log.messages {
		if m.PublishedAt == nil {
			result = append(result, m)
		}
	}
	// The log is in commit order, so a stable sort keeps oldest first per attempt count.
	slices.SortStableFunc(result, func(a, b ports.OutboxMessage) int {
		return cmp.Compare(a.Attempts, b.Attempts)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, id kernel.UUID, at time.Time) error {
	return r.update(id, func(m *ports.OutboxMessage) {
		published := at.UTC()
		m.PublishedAt = &published
		m.Attempts++
	})
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id kernel.UUID, reason string) error {
	return r.update(id, func(m *ports.OutboxMessage) {
		m.Attempts++
		m.LastError = reason
	})
}

func (r *OutboxRepository) update(id kernel.UUID, fn func(*ports.OutboxMessage)) error {
	log := &r.uow.store.outbox
	log.mu.Lock()
	defer log.mu.Unlock()

	i, ok := log.index[id]
	if !ok {
		return errs.NewObjectNotFoundError("outbox message", id.String())
	}
	fn(&log.messages[i])
	return nil
}
