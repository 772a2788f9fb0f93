// Package postgres implements the unit of work over GORM. Repositories created by
// a unit of work run on its transaction once Begin has been called, and on the
// plain connection otherwise.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"halforder/internal/adapters/out/postgres/orderrepo"
	"halforder/internal/adapters/out/postgres/outboxrepo"
	"halforder/internal/adapters/out/postgres/sessionrepo"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate saved during the unit of work. Its pending
// domain events go to the outbox on Commit.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates embedding kernel.EventRecorder.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates a fresh GormUnitOfWork per business operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork wraps one database transaction. Events of the aggregates saved
// through its repositories are inserted into outbox_messages right before the
// transaction commits, so a change and its events are durable together.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a READ COMMITTED transaction whatever the server default is.
// Handlers that lose a compare-and-set re-read the record in the same transaction
// and must see the winner's commit; MySQL defaults to REPEATABLE READ, which would
// keep showing the first snapshot. Calling Begin again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit writes the pending domain events to the outbox and commits. The events
// are cleared from the aggregates only after the commit succeeded.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	sources, events := uow.pendingEvents()
	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, events...); err != nil {
		rbErr := uow.tx.Rollback().Error
		uow.tx = nil
		return errors.Join(err, rbErr)
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	for _, src := range sources {
		src.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction. It returns nil when there is nothing to roll
// back, so it is safe to defer right after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) SessionRepository() ports.SessionRepository {
	return sessionrepo.NewGormSessionRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate is called by repositories after an aggregate was written. Outside
// a transaction there is no commit to attach events to, so nothing is tracked.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	if uow.tx == nil {
		return
	}
	for _, t := range uow.trackedAggregates {
		if t.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pendingEvents() ([]eventSource, []kernel.DomainEvent) {
	sources := make([]eventSource, 0, len(uow.trackedAggregates))
	var events []kernel.DomainEvent
	for _, t := range uow.trackedAggregates {
		src, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}
		sources = append(sources, src)
		events = append(events, src.DomainEvents()...)
	}
	return sources, events
}
