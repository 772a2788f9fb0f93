package commands

import (
	"errors"
	"fmt"
	"strings"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrCustomerNameIsRequired   = errs.NewValueIsRequiredError("customer name")
	ErrCustomerMobileIsRequired = errs.NewValueIsRequiredError("customer mobile")
	ErrItemsAreRequired         = errs.NewValueIsRequiredError("items")
)

// PlaceOrderItem is one requested line. The price is never taken from the caller.
type PlaceOrderItem struct {
	MenuItemID kernel.UUID
	Portion    order.Portion
}

type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID   kernel.UUID
	tableID        kernel.UUID
	customerName   string
	customerMobile string
	items          []PlaceOrderItem

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	restaurantID kernel.UUID,
	tableID kernel.UUID,
	customerName string,
	customerMobile string,
	items []PlaceOrderItem,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setTableID(tableID),
		cmd.setCustomer(customerName, customerMobile),
		cmd.setItems(items),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }
func (c PlaceOrderCommand) TableID() kernel.UUID      { return c.tableID }
func (c PlaceOrderCommand) CustomerName() string      { return c.customerName }
func (c PlaceOrderCommand) CustomerMobile() string    { return c.customerMobile }

func (c PlaceOrderCommand) Items() []PlaceOrderItem {
	items := make([]PlaceOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *PlaceOrderCommand) setRestaurantID(id kernel.UUID) error {
	if id.IsZero() {
		return errs.NewValueIsRequiredError("restaurant id")
	}
	c.restaurantID = id
	return nil
}

func (c *PlaceOrderCommand) setTableID(id kernel.UUID) error {
	if id.IsZero() {
		return errs.NewValueIsRequiredError("table id")
	}
	c.tableID = id
	return nil
}

func (c *PlaceOrderCommand) setCustomer(name, mobile string) error {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)

	var err error
	if name == "" {
		err = ErrCustomerNameIsRequired
	}
	if mobile == "" {
		err = errors.Join(err, ErrCustomerMobileIsRequired)
	}
	if err != nil {
		return err
	}

	c.customerName = name
	c.customerMobile = mobile
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for i, item := range items {
		if item.MenuItemID.IsZero() {
			return errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].menu_item_id", i))
		}
		if err := item.Portion.Validate(); err != nil {
			return err
		}
		if item.Portion == order.Half && len(items) > 1 {
			return order.ErrMixedHalfPortion
		}
	}

	c.items = make([]PlaceOrderItem, len(items))
	copy(c.items, items)
	return nil
}
