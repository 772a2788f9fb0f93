package commands

import (
	"errors"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	role    kernel.Role

	guard guard.ConstructorGuard
}

func NewAdvanceOrderStatusCommand(orderID kernel.UUID, target order.Status, role kernel.Role) (AdvanceOrderStatusCommand, error) {
	var idErr, roleErr error
	if orderID.IsZero() {
		idErr = errs.NewValueIsRequiredError("order id")
	}
	if role == "" {
		roleErr = errs.NewValueIsRequiredError("role")
	}

	if err := errors.Join(idErr, target.Validate(), roleErr); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	return AdvanceOrderStatusCommand{
		orderID: orderID,
		target:  target,
		role:    role,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

func (c AdvanceOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c AdvanceOrderStatusCommand) Target() order.Status { return c.target }
func (c AdvanceOrderStatusCommand) Role() kernel.Role    { return c.role }
