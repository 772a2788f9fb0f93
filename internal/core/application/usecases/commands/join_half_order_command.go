package commands

import (
	"errors"
	"strings"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/errs"
	"halforder/internal/pkg/guard"
)

var ErrJoinHalfOrderCommandIsNotConstructed = errors.New(
	"JoinHalfOrderCommand must be created via NewJoinHalfOrderCommand constructor",
)

// JoinHalfOrderCommand asks to pair a new half-order from tableID with the order
// waiting in sessionID. The dish and restaurant are taken from the session.
type JoinHalfOrderCommand struct { //nolint:recvcheck //using for validation
	sessionID      kernel.UUID
	tableID        kernel.UUID
	customerName   string
	customerMobile string

	guard guard.ConstructorGuard
}

func NewJoinHalfOrderCommand(
	sessionID kernel.UUID,
	tableID kernel.UUID,
	customerName string,
	customerMobile string,
) (JoinHalfOrderCommand, error) {
	cmd := JoinHalfOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	var sessionErr, tableErr, nameErr, mobileErr error
	if sessionID.IsZero() {
		sessionErr = errs.NewValueIsRequiredError("session id")
	}
	if tableID.IsZero() {
		tableErr = errs.NewValueIsRequiredError("table id")
	}
	cmd.customerName = strings.TrimSpace(customerName)
	if cmd.customerName == "" {
		nameErr = ErrCustomerNameIsRequired
	}
	cmd.customerMobile = strings.TrimSpace(customerMobile)
	if cmd.customerMobile == "" {
		mobileErr = ErrCustomerMobileIsRequired
	}

	if err := errors.Join(sessionErr, tableErr, nameErr, mobileErr); err != nil {
		return JoinHalfOrderCommand{}, err
	}

	cmd.sessionID = sessionID
	cmd.tableID = tableID
	return cmd, nil
}

func (c JoinHalfOrderCommand) Validate() error {
	return c.guard.Validate(ErrJoinHalfOrderCommandIsNotConstructed)
}

func (c JoinHalfOrderCommand) SessionID() kernel.UUID { return c.sessionID }
func (c JoinHalfOrderCommand) TableID() kernel.UUID   { return c.tableID }
func (c JoinHalfOrderCommand) CustomerName() string   { return c.customerName }
func (c JoinHalfOrderCommand) CustomerMobile() string { return c.customerMobile }
