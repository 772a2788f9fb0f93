package session_test

import (
	"testing"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	restaurantID = kernel.NewUUID()
	paneerID     = kernel.NewUUID()
	openedAt     = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
	ttl          = 15 * time.Minute
)

func halfOrder(t *testing.T, tableNumber string) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(paneerID, "Paneer Tikka", order.Half, kernel.Rupees(150))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID,
		order.Table{ID: kernel.NewUUID(), Number: tableNumber},
		order.Customer{Name: "Guest " + tableNumber, Mobile: "98000" + tableNumber},
		[]order.LineItem{item}, openedAt)
	require.NoError(t, err)
	return o
}

func openSession(t *testing.T, owner *order.Order) *session.Session {
	t.Helper()
	s, err := session.NewSession(kernel.NewUUID(), owner, ttl, openedAt)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Run("should open a session for a half-order", func(t *testing.T) {
		owner := halfOrder(t, "T1")

		s := openSession(t, owner)

		require.NoError(t, s.Validate())
		assert.Equal(t, session.Open, s.Status())
		assert.Equal(t, openedAt.Add(ttl), s.ExpiresAt())
		assert.True(t, s.OrderID().IsEqual(owner.ID()))
		assert.True(t, s.MenuItemID().IsEqual(paneerID))
		assert.Equal(t, "Paneer Tikka", s.MenuItemName())
		assert.Equal(t, "T1", s.Table().Number)
		assert.Equal(t, "Guest T1", s.Customer().Name)
		assert.Equal(t, 1, s.Version())

		require.Len(t, s.DomainEvents(), 1)
		assert.Equal(t, session.EventTypeOpened, s.DomainEvents()[0].EventType())
	})

	t.Run("should refuse full orders", func(t *testing.T) {
		item, err := order.NewLineItem(paneerID, "Paneer Tikka", order.Full, kernel.Rupees(250))
		require.NoError(t, err)
		full, err := order.NewOrder(kernel.NewUUID(), restaurantID,
			order.Table{ID: kernel.NewUUID(), Number: "T1"},
			order.Customer{Name: "Asha", Mobile: "1"}, []order.LineItem{item}, openedAt)
		require.NoError(t, err)

		_, err = session.NewSession(kernel.NewUUID(), full, ttl, openedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse a non-positive ttl", func(t *testing.T) {
		_, err := session.NewSession(kernel.NewUUID(), halfOrder(t, "T1"), 0, openedAt)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var s session.Session

		assert.Equal(t, session.ErrSessionIsNotConstructed, s.Validate())
	})
}

func TestSession_Match(t *testing.T) {
	t.Run("should match a join from another table before the deadline", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))
		joiner := halfOrder(t, "T5")

		require.NoError(t, s.Match(joiner, openedAt.Add(2*time.Minute)))

		assert.Equal(t, session.Matched, s.Status())
		matched, ok := s.DomainEvents()[1].(session.MatchedEvent)
		require.True(t, ok)
		assert.Equal(t, "T5", matched.JoiningTableNumber)
	})

	t.Run("second join gets AlreadyMatched", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))
		require.NoError(t, s.Match(halfOrder(t, "T5"), openedAt))

		err := s.Match(halfOrder(t, "T7"), openedAt)

		require.ErrorIs(t, err, session.ErrAlreadyMatched)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("join at or after the deadline is Expired even before the sweep", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))

		err := s.Match(halfOrder(t, "T5"), openedAt.Add(ttl))

		require.ErrorIs(t, err, session.ErrExpired)
		require.ErrorIs(t, err, errs.ErrExpired)
		assert.Equal(t, session.Open, s.Status())
	})

	t.Run("join of a swept session is Expired", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))
		require.NoError(t, s.Expire(openedAt.Add(16*time.Minute)))

		require.ErrorIs(t, s.Match(halfOrder(t, "T5"), openedAt), session.ErrExpired)
	})

	t.Run("own table gets SelfJoin", func(t *testing.T) {
		owner := halfOrder(t, "T1")
		s := openSession(t, owner)
		sameTable, err := order.NewOrder(kernel.NewUUID(), restaurantID, owner.Table(),
			order.Customer{Name: "Friend", Mobile: "2"}, owner.Items(), openedAt)
		require.NoError(t, err)

		err = s.Match(sameTable, openedAt)

		require.ErrorIs(t, err, session.ErrSelfJoin)
		assert.Equal(t, session.Open, s.Status())
	})
}

func TestSession_Expire(t *testing.T) {
	t.Run("should expire after the deadline", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))
		sweptAt := openedAt.Add(16 * time.Minute)

		require.NoError(t, s.Expire(sweptAt))

		assert.Equal(t, session.Expired, s.Status())
		assert.Equal(t, sweptAt, s.UpdatedAt())
		expired, ok := s.DomainEvents()[1].(session.ExpiredEvent)
		require.True(t, ok)
		assert.Equal(t, session.ExpiryReasonTimeout, expired.Reason)
	})

	t.Run("should refuse before the deadline", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))

		require.ErrorIs(t, s.Expire(openedAt.Add(time.Minute)), errs.ErrValueIsInvalid)
		assert.Equal(t, session.Open, s.Status())
	})

	t.Run("matched sessions never expire", func(t *testing.T) {
		s := openSession(t, halfOrder(t, "T1"))
		require.NoError(t, s.Match(halfOrder(t, "T5"), openedAt))

		require.ErrorIs(t, s.Expire(openedAt.Add(time.Hour)), errs.ErrInvalidTransition)
		assert.Equal(t, session.Matched, s.Status())
	})
}

func TestSession_Close(t *testing.T) {
	s := openSession(t, halfOrder(t, "T1"))

	require.NoError(t, s.Close(openedAt.Add(time.Minute)))
	assert.Equal(t, session.Expired, s.Status())
	assert.False(t, s.IsLiveAt(openedAt.Add(time.Minute)))

	expired, ok := s.DomainEvents()[1].(session.ExpiredEvent)
	require.True(t, ok)
	assert.Equal(t, session.ExpiryReasonClosed, expired.Reason)

	require.ErrorIs(t, s.Close(openedAt), errs.ErrInvalidTransition)
}

func TestSession_IsLiveAt(t *testing.T) {
	s := openSession(t, halfOrder(t, "T1"))

	assert.True(t, s.IsLiveAt(openedAt.Add(ttl-time.Second)))
	assert.False(t, s.IsLiveAt(openedAt.Add(ttl)))
}

func TestRestoreSession(t *testing.T) {
	owner := halfOrder(t, "T1")
	original := openSession(t, owner)

	restored, err := session.RestoreSession(session.Snapshot{
		ID:           original.ID(),
		RestaurantID: original.RestaurantID(),
		MenuItemID:   original.MenuItemID(),
		MenuItemName: original.MenuItemName(),
		OrderID:      original.OrderID(),
		Table:        original.Table(),
		Customer:     original.Customer(),
		Status:       session.Matched,
		ExpiresAt:    original.ExpiresAt(),
		CreatedAt:    original.CreatedAt(),
		UpdatedAt:    original.UpdatedAt(),
		Version:      2,
	})

	require.NoError(t, err)
	assert.Empty(t, restored.DomainEvents())
	assert.Equal(t, session.Matched, restored.Status())

	_, err = session.RestoreSession(session.Snapshot{})
	require.Error(t, err)
}
