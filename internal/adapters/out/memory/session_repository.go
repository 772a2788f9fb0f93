package memory

import (
	"context"
	"slices"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"
)

type SessionRepository struct {
	uow *UnitOfWork
}

func (r *SessionRepository) Add(_ context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snap := aggregate.Snapshot()
	if _, err := stage(r.uow.sessions, &r.uow.store.sessions, "session", snap.ID, true, snap.Version, snap); err != nil {
		return err
	}
	r.uow.track(aggregate)
	return r.uow.autocommit()
}

func (r *SessionRepository) Update(_ context.Context, aggregate *session.Session) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snap := aggregate.Snapshot()
	snap.Version = aggregate.Version() + 1
	if _, err := stage(r.uow.sessions, &r.uow.store.sessions, "session", snap.ID, false, aggregate.Version(), snap); err != nil {
		return err
	}
	r.uow.track(aggregate)
	if err := r.uow.autocommit(); err != nil {
		return err
	}

	aggregate.IncrementVersion()
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id kernel.UUID) (*session.Session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if p, ok := r.uow.sessions[id]; ok {
		return session.RestoreSession(p.snap)
	}
	snap, ok := r.uow.store.sessions.load(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("session", id.String())
	}
	return session.RestoreSession(snap)
}

func (r *SessionRepository) ListExpired(
	_ context.Context,
	now time.Time,
	after *ports.ExpiryCursor,
	limit int,
) ([]*session.Session, error) {
	snaps := r.collect(func(s session.Snapshot) bool {
		if s.Status != session.Open || now.Before(s.ExpiresAt) {
			return false
		}
		return after == nil || compareExpiry(s.ExpiresAt, s.ID, after.ExpiresAt, after.SessionID) > 0
	})
	slices.SortFunc(snaps, func(a, b session.Snapshot) int {
		return compareExpiry(a.ExpiresAt, a.ID, b.ExpiresAt, b.ID)
	})
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	return restoreSessions(snaps)
}

func (r *SessionRepository) ListOpenByRestaurant(
	_ context.Context,
	restaurantID kernel.UUID,
	now time.Time,
) ([]*session.Session, error) {
	var snaps []session.Snapshot
	for _, id := range r.uow.store.openSessionIDs(restaurantID) {
		s, ok := r.uow.store.sessions.load(id)
		if ok && s.Status == session.Open && now.Before(s.ExpiresAt) {
			snaps = append(snaps, s)
		}
	}
	slices.SortFunc(snaps, func(a, b session.Snapshot) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return restoreSessions(snaps)
}

func (r *SessionRepository) collect(match func(session.Snapshot) bool) []session.Snapshot {
	var snaps []session.Snapshot
	r.uow.store.sessions.scan(func(s session.Snapshot) {
		if match(s) {
			snaps = append(snaps, s)
		}
	})
	return snaps
}

func restoreSessions(snaps []session.Snapshot) ([]*session.Session, error) {
	sessions := make([]*session.Session, 0, len(snaps))
	for _, snap := range snaps {
		s, err := session.RestoreSession(snap)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func compareExpiry(at time.Time, id kernel.UUID, otherAt time.Time, otherID kernel.UUID) int {
	if c := at.Compare(otherAt); c != 0 {
		return c
	}
	return id.Compare(otherID)
}
