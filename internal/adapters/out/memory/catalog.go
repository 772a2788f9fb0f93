package memory

import (
	"context"
	"sync"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"
)

// Catalog is a read-mostly menu and table lookup. Put* exist for seeding and tests.
type Catalog struct {
	mu        sync.RWMutex
	menuItems map[kernel.UUID]ports.MenuItem
	tables    map[kernel.UUID]ports.Table
}

func NewCatalog(tables []ports.Table, menuItems []ports.MenuItem) *Catalog {
	c := &Catalog{
		menuItems: make(map[kernel.UUID]ports.MenuItem, len(menuItems)),
		tables:    make(map[kernel.UUID]ports.Table, len(tables)),
	}
	for _, t := range tables {
		c.PutTable(t)
	}
	for _, m := range menuItems {
		c.PutMenuItem(m)
	}
	return c
}

func (c *Catalog) PutTable(t ports.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[t.ID] = t
}

func (c *Catalog) PutMenuItem(m ports.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuItems[m.ID] = m
}

func (c *Catalog) GetMenuItem(_ context.Context, restaurantID, menuItemID kernel.UUID) (ports.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.menuItems[menuItemID]
	if !ok || !m.RestaurantID.IsEqual(restaurantID) {
		return ports.MenuItem{}, errs.NewObjectNotFoundError("menu item", menuItemID.String())
	}
	return m, nil
}

func (c *Catalog) GetTable(_ context.Context, restaurantID, tableID kernel.UUID) (ports.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[tableID]
	if !ok || !t.RestaurantID.IsEqual(restaurantID) {
		return ports.Table{}, errs.NewObjectNotFoundError("table", tableID.String())
	}
	return t, nil
}
