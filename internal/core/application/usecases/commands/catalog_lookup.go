package commands

import (
	"context"
	"errors"
	"fmt"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"
)

// Catalog rejections. Handlers wrap them as invalid values of the offending field.
var (
	ErrTableIsInactive       = errors.New("table is not active")
	ErrMenuItemIsUnavailable = errors.New("menu item is not available")
	ErrMenuItemHasNoHalf     = errors.New("menu item has no half portion")
)

// lookupTable resolves a table of the restaurant. A reference to a missing or
// inactive table is a validation failure of the request, not a 404.
func lookupTable(ctx context.Context, catalog ports.Catalog, restaurantID, tableID kernel.UUID) (order.Table, error) {
	t, err := catalog.GetTable(ctx, restaurantID, tableID)
	if err != nil {
		return order.Table{}, referenceError("table id", err)
	}
	if !t.Active {
		return order.Table{}, errs.NewValueIsInvalidErrorWithCause("table id", ErrTableIsInactive)
	}
	return order.Table{ID: t.ID, Number: t.Number}, nil
}

// priceLine builds a line item priced from the catalog.
func priceLine(
	ctx context.Context,
	catalog ports.Catalog,
	restaurantID, menuItemID kernel.UUID,
	portion order.Portion,
) (order.LineItem, error) {
	item, err := catalog.GetMenuItem(ctx, restaurantID, menuItemID)
	if err != nil {
		return order.LineItem{}, referenceError("menu item id", err)
	}
	if !item.Available {
		return order.LineItem{}, errs.NewValueIsInvalidErrorWithCause("menu item id",
			fmt.Errorf("%s: %w", item.Name, ErrMenuItemIsUnavailable))
	}

	price := item.FullPrice
	if portion == order.Half {
		if item.HalfPrice == nil {
			return order.LineItem{}, errs.NewValueIsInvalidErrorWithCause("portion",
				fmt.Errorf("%s: %w", item.Name, ErrMenuItemHasNoHalf))
		}
		price = *item.HalfPrice
	}

	return order.NewLineItem(item.ID, item.Name, portion, price)
}

func referenceError(param string, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return err
}
