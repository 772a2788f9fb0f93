package services

import (
	"errors"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/pkg/errs"
)

// ErrSessionOrderMismatch is returned when the order handed in as the session owner is not the one the session belongs to.
var ErrSessionOrderMismatch = errs.NewValueIsInvalidErrorWithCause("owner",
	errors.New("order does not own the half-order session"))

// HalfOrderMatcher is a domain service that coordinates the Order and Session
// aggregates for half-order pairing.
//
// Business rules:
//   - Only an OPEN half-order can open a session; it opens exactly one
//   - A join is validated against the session before any aggregate changes
//   - On success the session, the owning order and the joining order all change together
//
// The matcher does not persist anything. Making the change stick exactly once under
// concurrent joins is the job of the repositories' compare-and-set writes.
//
// Example usage:
//
//	matcher := services.NewHalfOrderMatcher()
//	s, err := matcher.Open(owner, 30*time.Minute, now)
//	...
//	err = matcher.Join(s, owner, joiner, now)
//	if errors.Is(err, session.ErrAlreadyMatched) {
//	    // someone else got there first
//	}
type HalfOrderMatcher struct{}

// NewHalfOrderMatcher returns the stateless matcher.
func NewHalfOrderMatcher() HalfOrderMatcher {
	return HalfOrderMatcher{}
}

// Open creates the session for a freshly placed half-order and links the order to it.
func (m HalfOrderMatcher) Open(owner *order.Order, ttl time.Duration, now time.Time) (*session.Session, error) {
	s, err := session.NewSession(kernel.NewUUID(), owner, ttl, now)
	if err != nil {
		return nil, err
	}

	if err = owner.AttachSession(s.ID()); err != nil {
		return nil, err
	}

	return s, nil
}

// Join pairs joiner with the order that owns s.
//
// Returns session.ErrAlreadyMatched, session.ErrExpired or session.ErrSelfJoin when
// the session cannot admit the join; in that case no aggregate is modified.
func (m HalfOrderMatcher) Join(s *session.Session, owner *order.Order, joiner *order.Order, now time.Time) error {
	if err := errors.Join(s.Validate(), owner.Validate(), joiner.Validate()); err != nil {
		return err
	}
	if !s.OrderID().IsEqual(owner.ID()) {
		return ErrSessionOrderMismatch
	}

	if err := s.ValidateJoin(joiner.Table().ID, now); err != nil {
		return err
	}

	if err := owner.MatchWith(joiner, now); err != nil {
		return err
	}

	if err := s.Match(joiner, now); err != nil {
		return err
	}

	return joiner.AttachSession(s.ID())
}
