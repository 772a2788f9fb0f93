package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrMixedHalfPortion rejects a half portion ordered together with other lines. A half
	// portion can only be served once paired, and pairing is per order.
	ErrMixedHalfPortion = errs.NewValueIsInvalidErrorWithCause("items",
		errors.New("a half portion must be ordered on its own"))
)

// Table is the restaurant table an order was placed from.
type Table struct {
	ID     kernel.UUID
	Number string
}

// Customer identifies the diner. Mobile is also the lookup key for "my orders".
type Customer struct {
	Name   string
	Mobile string
}

// Order is the aggregate root for one customer's committed order: a full order, or
// a half-order awaiting or having found its partner.
//
// Order follows these invariants:
//   - Total equals the sum of line prices at creation and never changes
//   - A half-order has exactly one line, and it is a half portion
//   - matchedOrderID is set on both orders of a pair, pointing at each other
//   - Status changes only through the transition methods
type Order struct {
	kernel.EventRecorder

	id           kernel.UUID
	restaurantID kernel.UUID
	table        Table
	customer     Customer
	items        []LineItem
	total        kernel.Money
	status       Status

	// sessionID is the half-order session this order owns or joined.
	sessionID          *kernel.UUID
	matchedOrderID     *kernel.UUID
	matchedTableNumber string

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic concurrency counter the repositories compare against.
	version int

	isConstructed bool
}

// NewOrder places an order in OPEN status. The total is computed from the line prices.
//
// Example:
//
//	paneer, _ := order.NewLineItem(menuItemID, "Paneer Tikka", order.Full, kernel.Rupees(250))
//	rolls, _ := order.NewLineItem(otherID, "Veg Spring Rolls", order.Full, kernel.Rupees(180))
//	o, err := order.NewOrder(kernel.NewUUID(), restaurantID,
//	    order.Table{ID: tableID, Number: "T1"},
//	    order.Customer{Name: "Asha", Mobile: "9800000001"},
//	    []order.LineItem{paneer, rolls}, time.Now())
//	// o.Total() is ₹430.00
func NewOrder(
	id kernel.UUID,
	restaurantID kernel.UUID,
	table Table,
	customer Customer,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Open,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRestaurantID(restaurantID),
		o.setTable(table),
		o.setCustomer(customer),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.raisePlaced(now)
	return o, nil
}

// Snapshot is the persisted shape of an Order used by RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	RestaurantID       kernel.UUID
	Table              Table
	Customer           Customer
	Items              []LineItem
	Total              kernel.Money
	Status             Status
	SessionID          *kernel.UUID
	MatchedOrderID     *kernel.UUID
	MatchedTableNumber string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
}

// RestoreOrder rebuilds an Order from storage without raising events. The stored
// total is kept as is so later menu price changes never leak into placed orders.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		sessionID:          s.SessionID,
		matchedOrderID:     s.MatchedOrderID,
		matchedTableNumber: s.MatchedTableNumber,
		createdAt:          s.CreatedAt.UTC(),
		updatedAt:          s.UpdatedAt.UTC(),
		version:            s.Version,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setRestaurantID(s.RestaurantID),
		o.setTable(s.Table),
		o.setCustomer(s.Customer),
		o.setItems(s.Items),
		s.Status.Validate(),
		s.Total.Validate(),
	); err != nil {
		return nil, err
	}
	o.total = s.Total
	o.status = s.Status

	return o, nil
}

// Snapshot returns the persisted shape of the order. Pending events are not included.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		RestaurantID:       o.restaurantID,
		Table:              o.table,
		Customer:           o.customer,
		Items:              o.Items(),
		Total:              o.total,
		Status:             o.status,
		SessionID:          o.sessionID,
		MatchedOrderID:     o.matchedOrderID,
		MatchedTableNumber: o.matchedTableNumber,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
		Version:            o.version,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID              { return o.id }
func (o *Order) RestaurantID() kernel.UUID    { return o.restaurantID }
func (o *Order) Table() Table                 { return o.table }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) Total() kernel.Money          { return o.total }
func (o *Order) Status() Status               { return o.status }
func (o *Order) SessionID() *kernel.UUID      { return o.sessionID }
func (o *Order) MatchedOrderID() *kernel.UUID { return o.matchedOrderID }
func (o *Order) MatchedTableNumber() string   { return o.matchedTableNumber }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
func (o *Order) Version() int                 { return o.version }

// Items returns a copy of the order lines.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// IsHalfOrder reports whether the order is a single half-portion line.
func (o *Order) IsHalfOrder() bool {
	return len(o.items) == 1 && o.items[0].Portion() == Half
}

// HalfItem returns the half-portion line of a half-order.
func (o *Order) HalfItem() (LineItem, bool) {
	if !o.IsHalfOrder() {
		return LineItem{}, false
	}
	return o.items[0], true
}

// AttachSession records the half-order session this order owns or joined.
func (o *Order) AttachSession(sessionID kernel.UUID) error {
	if !o.IsHalfOrder() {
		return errs.NewValueIsInvalidErrorWithCause("session", errors.New("only half-orders take part in sessions"))
	}
	if err := sessionID.Validate(); err != nil {
		return err
	}
	if o.sessionID != nil {
		return errs.NewValueIsInvalidErrorWithCause("session", fmt.Errorf("order already belongs to session %s", o.sessionID))
	}
	o.sessionID = &sessionID
	return nil
}

// MatchWith pairs two OPEN half-orders of the same dish from different tables.
// Both orders move to MATCHED and point at each other; either both change or neither does.
func (o *Order) MatchWith(partner *Order, now time.Time) error {
	if err := partner.Validate(); err != nil {
		return err
	}
	if o.IsEqual(partner) {
		return errs.NewValueIsInvalidErrorWithCause("partner", errors.New("an order cannot match itself"))
	}

	mine, ok := o.HalfItem()
	theirs, partnerOK := partner.HalfItem()
	if !ok || !partnerOK {
		return errs.NewValueIsInvalidErrorWithCause("partner", errors.New("only half-orders can be matched"))
	}
	if !mine.MenuItemID().IsEqual(theirs.MenuItemID()) || !o.restaurantID.IsEqual(partner.restaurantID) {
		return errs.NewValueIsInvalidErrorWithCause("partner", errors.New("half-orders must be for the same dish at the same restaurant"))
	}
	if o.matchedOrderID != nil || partner.matchedOrderID != nil {
		return errs.NewConflictError("order is already matched")
	}

	myStatus, err := o.status.Match()
	if err != nil {
		return err
	}
	partnerStatus, err := partner.status.Match()
	if err != nil {
		return err
	}

	o.applyMatch(myStatus, partner, now)
	partner.applyMatch(partnerStatus, o, now)
	return nil
}

func (o *Order) applyMatch(status Status, partner *Order, now time.Time) {
	partnerID := partner.id
	o.status = status
	o.matchedOrderID = &partnerID
	o.matchedTableNumber = partner.table.Number
	o.touch(now)
	o.raiseMatched(now)
}

// Advance applies a staff status change. Customers may not change status; the
// allowed targets are PREPARING, SERVED and CANCELLED.
func (o *Order) Advance(target Status, role kernel.Role, now time.Time) error {
	if !role.CanAdvanceOrders() {
		return errs.NewAccessDeniedError(role.String(), "change order status")
	}

	newStatus, err := o.status.Advance(target)
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	return nil
}

// Expire moves an unmatched half-order to EXPIRED. Full orders never expire.
func (o *Order) Expire(now time.Time) error {
	if !o.IsHalfOrder() {
		return errs.NewInvalidTransitionError("order", o.status.String(), Expired.String())
	}

	newStatus, err := o.status.Expire()
	if err != nil {
		return err
	}

	o.transition(newStatus, now)
	return nil
}

// IncrementVersion is called by repositories after a successful compare-and-set write.
func (o *Order) IncrementVersion() {
	o.version++
}

func (o *Order) transition(to Status, now time.Time) {
	from := o.status
	o.status = to
	o.touch(now)
	o.raiseStatusChanged(from, now)
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if id.IsZero() {
		return errs.NewValueIsRequiredError("restaurant id")
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setTable(t Table) error {
	var tableErr error
	if t.ID.IsZero() {
		tableErr = errs.NewValueIsRequiredError("table id")
	}
	t.Number = strings.TrimSpace(t.Number)
	if t.Number == "" {
		tableErr = errors.Join(tableErr, errs.NewValueIsRequiredError("table number"))
	}
	if tableErr != nil {
		return tableErr
	}
	o.table = t
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	var customerErr error
	c.Name = strings.TrimSpace(c.Name)
	c.Mobile = strings.TrimSpace(c.Mobile)
	if c.Name == "" {
		customerErr = errs.NewValueIsRequiredError("customer name")
	}
	if c.Mobile == "" {
		customerErr = errors.Join(customerErr, errs.NewValueIsRequiredError("customer mobile"))
	}
	if customerErr != nil {
		return customerErr
	}
	o.customer = c
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total := kernel.Zero()
	for i, item := range items {
		if err := item.MenuItemID().Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
		if item.Portion() == Half && len(items) > 1 {
			return ErrMixedHalfPortion
		}
		total = total.Add(item.Price())
	}

	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}
