package memory_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"halforder/internal/adapters/out/memory"
	"halforder/internal/adapters/out/seed"
	"halforder/internal/core/application/usecases/commands"
	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/clock"

	"github.com/stretchr/testify/require"
)

var dinnerTime = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)

type orderUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (o orderUoWFactory) Create() commands.OrderUoW { return o.f.Create() }

type outboxUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (o outboxUoWFactory) Create() commands.OutboxUoW { return o.f.Create() }

// harness wires the command handlers over one memory store with the demo catalog.
type harness struct {
	t          *testing.T
	store      *memory.Store
	factory    *memory.UnitOfWorkFactory
	catalog    *memory.Catalog
	clock      *clock.Manual
	data       seed.Data
	restaurant kernel.UUID

	place   commands.PlaceOrderCommandHandler
	join    commands.JoinHalfOrderCommandHandler
	advance commands.AdvanceOrderStatusCommandHandler
	sweep   commands.ExpireSessionsCommandHandler
}

func newHarness(t *testing.T, ttl time.Duration) *harness {
	t.Helper()
	data := seed.Demo()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	catalog := memory.NewCatalog(data.Tables, data.MenuItems)
	clk := clock.NewManual(dinnerTime)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uows := orderUoWFactory{f: factory}

	return &harness{
		t:          t,
		store:      store,
		factory:    factory,
		catalog:    catalog,
		clock:      clk,
		data:       data,
		restaurant: data.Restaurants[0].ID,
		place:      commands.NewPlaceOrderCommandHandler(uows, catalog, ttl, clk.Now, logger),
		join:       commands.NewJoinHalfOrderCommandHandler(uows, catalog, clk.Now, logger),
		advance:    commands.NewAdvanceOrderStatusCommandHandler(uows, clk.Now, logger),
		sweep:      commands.NewExpireSessionsCommandHandler(uows, clk.Now, logger),
	}
}

func (h *harness) table(number string) ports.Table {
	h.t.Helper()
	t, ok := h.data.Table(h.restaurant, number)
	require.True(h.t, ok, number)
	return t
}

func (h *harness) dish(name string) ports.MenuItem {
	h.t.Helper()
	m, ok := h.data.MenuItem(h.restaurant, name)
	require.True(h.t, ok, name)
	return m
}

func (h *harness) placeHalf(tableNumber, dish string) *order.Order {
	h.t.Helper()
	cmd, err := commands.NewPlaceOrderCommand(h.restaurant, h.table(tableNumber).ID, "Guest "+tableNumber, "98"+tableNumber,
		[]commands.PlaceOrderItem{{MenuItemID: h.dish(dish).ID, Portion: order.Half}})
	require.NoError(h.t, err)
	o, err := h.place.Handle(h.t.Context(), cmd)
	require.NoError(h.t, err)
	return o
}

func (h *harness) joinCommand(sessionID kernel.UUID, tableNumber string) commands.JoinHalfOrderCommand {
	h.t.Helper()
	cmd, err := commands.NewJoinHalfOrderCommand(sessionID, h.table(tableNumber).ID, "Guest "+tableNumber, "98"+tableNumber)
	require.NoError(h.t, err)
	return cmd
}

func (h *harness) getOrder(id kernel.UUID) *order.Order {
	h.t.Helper()
	o, err := h.factory.Create().OrderRepository().Get(h.t.Context(), id)
	require.NoError(h.t, err)
	return o
}

func (h *harness) openSessions() []queries.SessionResponse {
	h.t.Helper()
	q, err := queries.NewListOpenSessionsQuery(h.restaurant)
	require.NoError(h.t, err)
	result, err := queries.NewListOpenSessionsQueryHandler(h.factory.Create().SessionRepository(), h.clock.Now).
		Handle(h.t.Context(), q)
	require.NoError(h.t, err)
	return result
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
