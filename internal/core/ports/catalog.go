package ports

import (
	"context"

	"halforder/internal/core/domain/model/kernel"
)

// MenuItem is the catalog view of a dish. HalfPrice is nil when the dish has no half portion.
type MenuItem struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	Name         string
	Category     string
	FullPrice    kernel.Money
	HalfPrice    *kernel.Money
	Available    bool
}

type Table struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	Number       string
	Active       bool
}

// Catalog is the read-only menu and table lookup owned by the surrounding CRUD
// application. Unknown ids return *errs.ObjectNotFoundError.
type Catalog interface {
	GetMenuItem(ctx context.Context, restaurantID, menuItemID kernel.UUID) (MenuItem, error)
	GetTable(ctx context.Context, restaurantID, tableID kernel.UUID) (Table, error)
}
