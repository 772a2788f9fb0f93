package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
	"halforder/internal/core/domain/services"
	"halforder/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var (
	restaurantID = kernel.NewUUID()
	tableT1      = ports.Table{ID: kernel.NewUUID(), RestaurantID: restaurantID, Number: "T1", Active: true}
	tableT5      = ports.Table{ID: kernel.NewUUID(), RestaurantID: restaurantID, Number: "T5", Active: true}
	halfPaneer   = kernel.Rupees(150)
	paneerTikka  = ports.MenuItem{
		ID: kernel.NewUUID(), RestaurantID: restaurantID, Name: "Paneer Tikka", Category: "Starters",
		FullPrice: kernel.Rupees(250), HalfPrice: &halfPaneer, Available: true,
	}
	springRolls = ports.MenuItem{
		ID: kernel.NewUUID(), RestaurantID: restaurantID, Name: "Veg Spring Rolls", Category: "Starters",
		FullPrice: kernel.Rupees(180), Available: true,
	}
	start = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func placedHalfOrder(t *testing.T, table ports.Table) *order.Order {
	t.Helper()
	line, err := order.NewLineItem(paneerTikka.ID, paneerTikka.Name, order.Half, halfPaneer)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID,
		order.Table{ID: table.ID, Number: table.Number},
		order.Customer{Name: "Guest " + table.Number, Mobile: "98000" + table.Number},
		[]order.LineItem{line}, start)
	require.NoError(t, err)
	return o
}

// openHalfOrder returns a placed half-order and the session it owns, as stored.
func openHalfOrder(t *testing.T, table ports.Table, ttl time.Duration) (*order.Order, *session.Session) {
	t.Helper()
	owner := placedHalfOrder(t, table)
	s, err := services.NewHalfOrderMatcher().Open(owner, ttl, start)
	require.NoError(t, err)
	owner.ClearDomainEvents()
	s.ClearDomainEvents()
	return owner, s
}

func restoredSession(t *testing.T, s *session.Session, status session.Status) *session.Session {
	t.Helper()
	restored, err := session.RestoreSession(session.Snapshot{
		ID:           s.ID(),
		RestaurantID: s.RestaurantID(),
		MenuItemID:   s.MenuItemID(),
		MenuItemName: s.MenuItemName(),
		OrderID:      s.OrderID(),
		Table:        s.Table(),
		Customer:     s.Customer(),
		Status:       status,
		ExpiresAt:    s.ExpiresAt(),
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
		Version:      s.Version() + 1,
	})
	require.NoError(t, err)
	return restored
}

func contextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithCancel(t.Context())
}
