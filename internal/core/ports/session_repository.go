package ports

import (
	"context"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/session"
)

// SessionRepository persists half-order sessions. Update has the same
// compare-and-set contract as OrderRepository.Update.
type SessionRepository interface {
	Add(ctx context.Context, aggregate *session.Session) error
	Update(ctx context.Context, aggregate *session.Session) error
	Get(ctx context.Context, id kernel.UUID) (*session.Session, error)

	// ListExpired returns up to limit OPEN sessions whose deadline is at or before now,
	// ordered by deadline then id. A non-nil after skips everything up to and including
	// that position.
	ListExpired(ctx context.Context, now time.Time, after *ExpiryCursor, limit int) ([]*session.Session, error)

	SessionReader
}

// ExpiryCursor is a position in the ListExpired ordering.
type ExpiryCursor struct {
	ExpiresAt time.Time
	SessionID kernel.UUID
}

// ExpiryCursorOf positions a cursor at s.
func ExpiryCursorOf(s *session.Session) *ExpiryCursor {
	return &ExpiryCursor{ExpiresAt: s.ExpiresAt(), SessionID: s.ID()}
}

// SessionReader is the read side used by queries.
type SessionReader interface {
	// ListOpenByRestaurant returns OPEN sessions whose deadline is after now, newest first.
	ListOpenByRestaurant(ctx context.Context, restaurantID kernel.UUID, now time.Time) ([]*session.Session, error)
}
