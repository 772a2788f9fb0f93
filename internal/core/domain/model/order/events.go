package order

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
)

const (
	EventTypePlaced        = "order.placed"
	EventTypeMatched       = "order.matched"
	EventTypeStatusChanged = "order.status_changed"
)

// PlacedEvent is raised once when an order is created.
type PlacedEvent struct {
	kernel.BaseEvent
	RestaurantID   string `json:"restaurant_id"`
	TableNumber    string `json:"table_number"`
	CustomerMobile string `json:"customer_mobile"`
	Status         string `json:"status"`
	TotalPaise     int64  `json:"total_paise"`
	IsHalfOrder    bool   `json:"is_half_order"`
}

// MatchedEvent is raised on each side of a successful pairing.
type MatchedEvent struct {
	kernel.BaseEvent
	RestaurantID       string `json:"restaurant_id"`
	MatchedOrderID     string `json:"matched_order_id"`
	MatchedTableNumber string `json:"matched_table_number"`
}

// StatusChangedEvent is raised on every staff or sweeper transition.
type StatusChangedEvent struct {
	kernel.BaseEvent
	RestaurantID string `json:"restaurant_id"`
	From         string `json:"from"`
	To           string `json:"to"`
}

func (o *Order) raisePlaced(now time.Time) {
	o.Raise(PlacedEvent{
		BaseEvent:      kernel.NewBaseEvent(EventTypePlaced, o.id, now),
		RestaurantID:   o.restaurantID.String(),
		TableNumber:    o.table.Number,
		CustomerMobile: o.customer.Mobile,
		Status:         o.status.String(),
		TotalPaise:     o.total.Paise(),
		IsHalfOrder:    o.IsHalfOrder(),
	})
}

func (o *Order) raiseMatched(now time.Time) {
	o.Raise(MatchedEvent{
		BaseEvent:          kernel.NewBaseEvent(EventTypeMatched, o.id, now),
		RestaurantID:       o.restaurantID.String(),
		MatchedOrderID:     o.matchedOrderID.String(),
		MatchedTableNumber: o.matchedTableNumber,
	})
}

func (o *Order) raiseStatusChanged(from Status, now time.Time) {
	o.Raise(StatusChangedEvent{
		BaseEvent:    kernel.NewBaseEvent(EventTypeStatusChanged, o.id, now),
		RestaurantID: o.restaurantID.String(),
		From:         from.String(),
		To:           o.status.String(),
	})
}
