package session

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
)

const (
	EventTypeOpened  = "session.opened"
	EventTypeMatched = "session.matched"
	EventTypeExpired = "session.expired"
)

// Reasons carried by ExpiredEvent.
const (
	ExpiryReasonTimeout = "timeout"
	ExpiryReasonClosed  = "closed"
)

type OpenedEvent struct {
	kernel.BaseEvent
	RestaurantID string    `json:"restaurant_id"`
	MenuItemID   string    `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name"`
	OrderID      string    `json:"order_id"`
	TableNumber  string    `json:"table_number"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type MatchedEvent struct {
	kernel.BaseEvent
	RestaurantID       string `json:"restaurant_id"`
	OrderID            string `json:"order_id"`
	JoiningOrderID     string `json:"joining_order_id"`
	JoiningTableNumber string `json:"joining_table_number"`
}

type ExpiredEvent struct {
	kernel.BaseEvent
	RestaurantID string `json:"restaurant_id"`
	OrderID      string `json:"order_id"`
	Reason       string `json:"reason"`
}
