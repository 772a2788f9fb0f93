package queries

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"
)

// LineItemResponse is one priced line of an order.
type LineItemResponse struct {
	MenuItemID kernel.UUID
	Name       string
	Portion    string
	Price      kernel.Money
}

// OrderResponse is the read model of an order as shown to customers and staff.
type OrderResponse struct {
	ID                 kernel.UUID
	RestaurantID       kernel.UUID
	TableID            kernel.UUID
	TableNumber        string
	CustomerName       string
	CustomerMobile     string
	Items              []LineItemResponse
	Total              kernel.Money
	Status             string
	IsHalfOrder        bool
	SessionID          *kernel.UUID
	MatchedOrderID     *kernel.UUID
	MatchedTableNumber string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SessionResponse describes a half-order waiting for a partner.
type SessionResponse struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	MenuItemID   kernel.UUID
	MenuItemName string
	OrderID      kernel.UUID
	TableNumber  string
	CustomerName string
	Status       string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func NewOrderResponse(o *order.Order) OrderResponse {
	items := o.Items()
	lines := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemResponse{
			MenuItemID: item.MenuItemID(),
			Name:       item.Name(),
			Portion:    item.Portion().String(),
			Price:      item.Price(),
		})
	}

	return OrderResponse{
		ID:                 o.ID(),
		RestaurantID:       o.RestaurantID(),
		TableID:            o.Table().ID,
		TableNumber:        o.Table().Number,
		CustomerName:       o.Customer().Name,
		CustomerMobile:     o.Customer().Mobile,
		Items:              lines,
		Total:              o.Total(),
		Status:             o.Status().String(),
		IsHalfOrder:        o.IsHalfOrder(),
		SessionID:          o.SessionID(),
		MatchedOrderID:     o.MatchedOrderID(),
		MatchedTableNumber: o.MatchedTableNumber(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func NewSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID(),
		RestaurantID: s.RestaurantID(),
		MenuItemID:   s.MenuItemID(),
		MenuItemName: s.MenuItemName(),
		OrderID:      s.OrderID(),
		TableNumber:  s.Table().Number,
		CustomerName: s.Customer().Name,
		Status:       s.Status().String(),
		ExpiresAt:    s.ExpiresAt(),
		CreatedAt:    s.CreatedAt(),
	}
}

func newestOrdersFirst(a, b OrderResponse) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
