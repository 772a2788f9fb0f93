package order

import (
	"errors"
	"strings"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/errs"
)

// LineItem is one dish on an order, priced when the order was placed.
type LineItem struct {
	menuItemID kernel.UUID
	name       string
	portion    Portion
	price      kernel.Money
}

// NewLineItem builds a line from catalog data. Name is the display name at placement time.
func NewLineItem(menuItemID kernel.UUID, name string, portion Portion, price kernel.Money) (LineItem, error) {
	var nameErr error
	name = strings.TrimSpace(name)
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}

	if err := errors.Join(menuItemID.Validate(), nameErr, portion.Validate(), price.Validate()); err != nil {
		return LineItem{}, err
	}

	return LineItem{menuItemID: menuItemID, name: name, portion: portion, price: price}, nil
}

func (l LineItem) MenuItemID() kernel.UUID { return l.menuItemID }
func (l LineItem) Name() string            { return l.name }
func (l LineItem) Portion() Portion        { return l.portion }
func (l LineItem) Price() kernel.Money     { return l.price }
