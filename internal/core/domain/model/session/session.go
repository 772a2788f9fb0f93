package session

import (
	"errors"
	"fmt"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/pkg/errs"
)

var (
	// ErrSessionIsNotConstructed is returned when a Session was not created through NewSession or RestoreSession.
	ErrSessionIsNotConstructed = errors.New("Session must be created via NewSession constructor")

	// ErrAlreadyMatched means another join won the session.
	ErrAlreadyMatched = errs.NewConflictError("half-order session is already matched")

	// ErrSelfJoin means the joining table owns the session.
	ErrSelfJoin = errs.NewConflictError("a table cannot join its own half-order session")

	// ErrExpired means the session deadline passed, whether or not the sweeper has run.
	ErrExpired = errs.NewExpiredError("half-order session")
)

// Session is an open invitation for one unmatched half-order. It is the unit of
// mutual exclusion for matching: at most one join may move it out of OPEN.
type Session struct {
	kernel.EventRecorder

	id           kernel.UUID
	restaurantID kernel.UUID
	menuItemID   kernel.UUID
	menuItemName string
	orderID      kernel.UUID
	table        order.Table
	customer     order.Customer
	status       Status
	expiresAt    time.Time
	createdAt    time.Time
	updatedAt    time.Time
	version      int

	isConstructed bool
}

// NewSession opens a session for an OPEN half-order. The deadline is now+ttl.
func NewSession(id kernel.UUID, owner *order.Order, ttl time.Duration, now time.Time) (*Session, error) {
	if err := errors.Join(id.Validate(), owner.Validate()); err != nil {
		return nil, err
	}
	item, ok := owner.HalfItem()
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("order", errors.New("only a half-order can open a session"))
	}
	if owner.Status() != order.Open {
		return nil, errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order is %s, not OPEN", owner.Status()))
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("session ttl", ttl, "1ns", "unbounded")
	}

	s := &Session{
		id:            id,
		restaurantID:  owner.RestaurantID(),
		menuItemID:    item.MenuItemID(),
		menuItemName:  item.Name(),
		orderID:       owner.ID(),
		table:         owner.Table(),
		customer:      owner.Customer(),
		status:        Open,
		expiresAt:     now.Add(ttl).UTC(),
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       1,
		isConstructed: true,
	}

	s.Raise(OpenedEvent{
		BaseEvent:    kernel.NewBaseEvent(EventTypeOpened, s.id, now),
		RestaurantID: s.restaurantID.String(),
		MenuItemID:   s.menuItemID.String(),
		MenuItemName: s.menuItemName,
		OrderID:      s.orderID.String(),
		TableNumber:  s.table.Number,
		ExpiresAt:    s.expiresAt,
	})
	return s, nil
}

// Snapshot is the persisted shape of a Session used by RestoreSession.
type Snapshot struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	MenuItemID   kernel.UUID
	MenuItemName string
	OrderID      kernel.UUID
	Table        order.Table
	Customer     order.Customer
	Status       Status
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

// RestoreSession rebuilds a Session from storage without raising events.
func RestoreSession(snap Snapshot) (*Session, error) {
	if err := errors.Join(
		snap.ID.Validate(),
		snap.RestaurantID.Validate(),
		snap.MenuItemID.Validate(),
		snap.OrderID.Validate(),
		snap.Table.ID.Validate(),
		snap.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Session{
		id:            snap.ID,
		restaurantID:  snap.RestaurantID,
		menuItemID:    snap.MenuItemID,
		menuItemName:  snap.MenuItemName,
		orderID:       snap.OrderID,
		table:         snap.Table,
		customer:      snap.Customer,
		status:        snap.Status,
		expiresAt:     snap.ExpiresAt.UTC(),
		createdAt:     snap.CreatedAt.UTC(),
		updatedAt:     snap.UpdatedAt.UTC(),
		version:       snap.Version,
		isConstructed: true,
	}, nil
}

// Snapshot returns the persisted shape of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		RestaurantID: s.restaurantID,
		MenuItemID:   s.menuItemID,
		MenuItemName: s.menuItemName,
		OrderID:      s.orderID,
		Table:        s.table,
		Customer:     s.customer,
		Status:       s.status,
		ExpiresAt:    s.expiresAt,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
		Version:      s.version,
	}
}

// Validate rejects a session that did not come from NewSession or RestoreSession.
func (s *Session) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

func (s *Session) ID() kernel.UUID                { return s.id }
func (s *Session) RestaurantID() kernel.UUID      { return s.restaurantID }
func (s *Session) MenuItemID() kernel.UUID        { return s.menuItemID }
func (s *Session) MenuItemName() string           { return s.menuItemName }
func (s *Session) OrderID() kernel.UUID           { return s.orderID }
func (s *Session) Table() order.Table             { return s.table }
func (s *Session) Customer() order.Customer       { return s.customer }
func (s *Session) Status() Status                 { return s.status }
func (s *Session) ExpiresAt() time.Time           { return s.expiresAt }
func (s *Session) CreatedAt() time.Time           { return s.createdAt }
func (s *Session) UpdatedAt() time.Time           { return s.updatedAt }
func (s *Session) Version() int                   { return s.version }
func (s *Session) IncrementVersion()              { s.version++ }
func (s *Session) IsExpiredAt(now time.Time) bool { return !now.Before(s.expiresAt) }

// IsLiveAt reports whether the session is OPEN and its deadline has not passed.
func (s *Session) IsLiveAt(now time.Time) bool {
	return s.status == Open && !s.IsExpiredAt(now)
}

// ValidateJoin checks a join from joiningTableID at now without changing anything.
// Logical expiry is checked here so an overdue but unswept session is never joined.
func (s *Session) ValidateJoin(joiningTableID kernel.UUID, now time.Time) error {
	switch {
	case s.status == Matched:
		return ErrAlreadyMatched
	case s.status == Expired, s.IsExpiredAt(now):
		return ErrExpired
	case s.table.ID.IsEqual(joiningTableID):
		return ErrSelfJoin
	}
	return nil
}

// Match closes the session in favour of joiner.
func (s *Session) Match(joiner *order.Order, now time.Time) error {
	if err := joiner.Validate(); err != nil {
		return err
	}
	if err := s.ValidateJoin(joiner.Table().ID, now); err != nil {
		return err
	}

	s.status = Matched
	s.updatedAt = now.UTC()
	s.Raise(MatchedEvent{
		BaseEvent:          kernel.NewBaseEvent(EventTypeMatched, s.id, now),
		RestaurantID:       s.restaurantID.String(),
		OrderID:            s.orderID.String(),
		JoiningOrderID:     joiner.ID().String(),
		JoiningTableNumber: joiner.Table().Number,
	})
	return nil
}

// Expire is the sweeper transition: OPEN and past its deadline -> EXPIRED.
func (s *Session) Expire(now time.Time) error {
	if !s.IsExpiredAt(now) {
		return errs.NewValueIsInvalidErrorWithCause("expires at",
			fmt.Errorf("deadline %s has not passed", s.expiresAt.Format(time.RFC3339)))
	}
	return s.end(ExpiryReasonTimeout, now)
}

// Close ends an OPEN session early, e.g. when its order is cancelled or sent to the kitchen.
func (s *Session) Close(now time.Time) error {
	return s.end(ExpiryReasonClosed, now)
}

func (s *Session) end(reason string, now time.Time) error {
	if s.status != Open {
		return errs.NewInvalidTransitionError("session", s.status.String(), Expired.String())
	}

	s.status = Expired
	s.updatedAt = now.UTC()
	s.Raise(ExpiredEvent{
		BaseEvent:    kernel.NewBaseEvent(EventTypeExpired, s.id, now),
		RestaurantID: s.restaurantID.String(),
		OrderID:      s.orderID.String(),
		Reason:       reason,
	})
	return nil
}
