package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("memory: no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return newUnitOfWork(f.store)
}

// eventSource is implemented by aggregates embedding kernel.EventRecorder.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// UnitOfWork buffers writes until Commit. Reads see the transaction's own pending
// writes first. Without Begin every write commits on its own.
type UnitOfWork struct {
	store    *Store
	active   bool
	orders   map[kernel.UUID]*pending[order.Snapshot]
	sessions map[kernel.UUID]*pending[session.Snapshot]
	events   []kernel.DomainEvent
	tracked  []eventSource
}

func newUnitOfWork(store *Store) *UnitOfWork {
	uow := &UnitOfWork{store: store}
	uow.reset()
	return uow
}

func (uow *UnitOfWork) reset() {
	uow.orders = make(map[kernel.UUID]*pending[order.Snapshot])
	uow.sessions = make(map[kernel.UUID]*pending[session.Snapshot])
	uow.events = nil
	uow.tracked = nil
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.reset()
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	uow.active = false
	uow.reset()
	return nil
}

// Commit applies every pending write or none. A write whose record version moved
// on since it was read fails the whole commit with *errs.VersionIsInvalidError.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}
	defer func() {
		uow.active = false
		uow.reset()
	}()
	return uow.flush()
}

func (uow *UnitOfWork) flush() error {
	messages, err := uow.drainEvents()
	if err != nil {
		return err
	}

	writes := make([]stagedWrite, 0, len(uow.orders)+len(uow.sessions))
	for _, p := range uow.orders {
		writes = append(writes, p)
	}
	for _, p := range uow.sessions {
		writes = append(writes, p)
	}
	slices.SortFunc(writes, func(a, b stagedWrite) int {
		return a.key().Compare(b.key())
	})

	for _, w := range writes {
		w.acquire()
	}
	defer func() {
		for _, w := range writes {
			w.release()
		}
	}()

	for _, w := range writes {
		if err = w.check(); err != nil {
			return err
		}
	}
	for _, w := range writes {
		w.apply()
	}
	uow.store.outbox.append(messages...)

	for _, src := range uow.tracked {
		src.ClearDomainEvents()
	}
	return nil
}

func (uow *UnitOfWork) drainEvents() ([]ports.OutboxMessage, error) {
	events := slices.Clone(uow.events)
	for _, src := range uow.tracked {
		events = append(events, src.DomainEvents()...)
	}

	messages := make([]ports.OutboxMessage, 0, len(events))
	for _, e := range events {
		msg, err := ports.NewOutboxMessage(e)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (uow *UnitOfWork) track(src eventSource) {
	for _, t := range uow.tracked {
		if t == src {
			return
		}
	}
	uow.tracked = append(uow.tracked, src)
}

// autocommit flushes a single write made outside Begin/Commit. Aggregate events
// are only collected inside a transaction.
func (uow *UnitOfWork) autocommit() error {
	if uow.active {
		return nil
	}
	defer uow.reset()
	uow.tracked = nil
	return uow.flush()
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

func (uow *UnitOfWork) SessionRepository() ports.SessionRepository {
	return &SessionRepository{uow: uow}
}

func (uow *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &OutboxRepository{uow: uow}
}

type stagedWrite interface {
	key() kernel.UUID
	acquire()
	release()
	check() error
	apply()
}

type pending[S any] struct {
	kind     string
	table    *table[S]
	id       kernel.UUID
	insert   bool
	expected int
	version  int
	snap     S
	slot     *record[S]
}

func (p *pending[S]) key() kernel.UUID { return p.id }

func (p *pending[S]) acquire() {
	p.slot = p.table.slot(p.id)
	p.slot.mu.Lock()
}

func (p *pending[S]) release() {
	p.slot.mu.Unlock()
}

func (p *pending[S]) check() error {
	switch {
	case p.insert && p.slot.exists:
		return errs.NewConflictError(fmt.Sprintf("%s %s already exists", p.kind, p.id))
	case p.insert:
		return nil
	case !p.slot.exists:
		return errs.NewObjectNotFoundError(p.kind, p.id.String())
	case p.slot.version != p.expected:
		return errs.NewVersionIsInvalidError(p.kind)
	}
	return nil
}

func (p *pending[S]) apply() {
	p.slot.snap = p.snap
	p.slot.version = p.version
	p.slot.exists = true
	if p.table.onApply != nil {
		p.table.onApply(p.snap)
	}
}

// stage records an insert or a version-guarded update of one record.
func stage[S any](
	writes map[kernel.UUID]*pending[S],
	t *table[S],
	kind string,
	id kernel.UUID,
	insert bool,
	expected int,
	snap S,
) (int, error) {
	if p, ok := writes[id]; ok {
		if insert {
			return 0, errs.NewConflictError(fmt.Sprintf("%s %s already exists", kind, id))
		}
		if p.version != expected {
			return 0, errs.NewVersionIsInvalidError(kind)
		}
		p.version = expected + 1
		p.snap = snap
		return p.version, nil
	}

	p := &pending[S]{kind: kind, table: t, id: id, insert: insert, expected: expected, version: expected, snap: snap}
	if !insert {
		p.version = expected + 1
	}
	writes[id] = p
	return p.version, nil
}
