// Package memory is the in-process storage backend used with DB_DRIVER=memory and in
// concurrency tests. It gives the same guarantees as the SQL backend: every write is
// a compare-and-set on the record version, applied at Commit under per-record
// mutexes taken in id order, so there is no lock shared by unrelated sessions.
package memory

import (
	"sync"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
)

// Store holds committed state. It is safe for concurrent use; create unit of work
// instances with NewUnitOfWorkFactory.
type Store struct {
	orders   table[order.Snapshot]
	sessions table[session.Snapshot]
	outbox   outboxLog

	// openSessions is restaurant id -> *sessionIndex, maintained on every session write.
	openSessions sync.Map
}

func NewStore() *Store {
	s := &Store{outbox: outboxLog{index: make(map[kernel.UUID]int)}}
	s.sessions.onApply = s.indexSession
	return s
}

type sessionIndex struct {
	mu  sync.Mutex
	ids map[kernel.UUID]struct{}
}

func (s *Store) restaurantIndex(restaurantID kernel.UUID) *sessionIndex {
	v, _ := s.openSessions.LoadOrStore(restaurantID, &sessionIndex{ids: make(map[kernel.UUID]struct{})})
	return v.(*sessionIndex)
}

func (s *Store) indexSession(snap session.Snapshot) {
	idx := s.restaurantIndex(snap.RestaurantID)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if snap.Status == session.Open {
		idx.ids[snap.ID] = struct{}{}
	} else {
		delete(idx.ids, snap.ID)
	}
}

// openSessionIDs returns the ids of OPEN sessions of a restaurant, swept or not.
func (s *Store) openSessionIDs(restaurantID kernel.UUID) []kernel.UUID {
	idx := s.restaurantIndex(restaurantID)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	ids := make([]kernel.UUID, 0, len(idx.ids))
	for id := range idx.ids {
		ids = append(ids, id)
	}
	return ids
}

type record[S any] struct {
	mu      sync.Mutex
	exists  bool
	version int
	snap    S
}

// table maps kernel.UUID to *record[S]. Records are never removed; a record that
// lost an insert race stays with exists == false and is invisible to readers.
type table[S any] struct {
	records sync.Map
	onApply func(S)
}

func (t *table[S]) load(id kernel.UUID) (S, bool) {
	v, ok := t.records.Load(id)
	if !ok {
		var zero S
		return zero, false
	}

	r := v.(*record[S])
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap, r.exists
}

func (t *table[S]) slot(id kernel.UUID) *record[S] {
	v, _ := t.records.LoadOrStore(id, &record[S]{})
	return v.(*record[S])
}

func (t *table[S]) scan(fn func(S)) {
	t.records.Range(func(_, v any) bool {
		r := v.(*record[S])
		r.mu.Lock()
		snap, exists := r.snap, r.exists
		r.mu.Unlock()
		if exists {
			fn(snap)
		}
		return true
	})
}

type outboxLog struct {
	mu       sync.Mutex
	messages []ports.OutboxMessage
	index    map[kernel.UUID]int
}

func (l *outboxLog) append(msgs ...ports.OutboxMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range msgs {
		l.index[m.ID] = len(l.messages)
		l.messages = append(l.messages, m)
	}
}
