package http

import (
	"time"

	"halforder/internal/core/application/usecases/queries"
	"halforder/internal/core/domain/model/kernel"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrderItem struct {
	MenuItemID string `json:"menu_item_id"`
	Portion    string `json:"portion"`
}

type NewOrder struct {
	RestaurantID   string         `json:"restaurant_id"`
	TableID        string         `json:"table_id"`
	CustomerName   string         `json:"customer_name"`
	CustomerMobile string         `json:"customer_mobile"`
	Items          []NewOrderItem `json:"items"`
}

type JoinHalfOrder struct {
	SessionID      string `json:"session_id"`
	TableID        string `json:"table_id"`
	CustomerName   string `json:"customer_name"`
	CustomerMobile string `json:"customer_mobile"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type LineItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Portion    string `json:"portion"`
	PricePaise int64  `json:"price_paise"`
	Price      string `json:"price"`
}

type Order struct {
	ID                 string     `json:"id"`
	RestaurantID       string     `json:"restaurant_id"`
	TableID            string     `json:"table_id"`
	TableNumber        string     `json:"table_number"`
	CustomerName       string     `json:"customer_name"`
	CustomerMobile     string     `json:"customer_mobile"`
	Items              []LineItem `json:"items"`
	TotalPaise         int64      `json:"total_paise"`
	Total              string     `json:"total"`
	Status             string     `json:"status"`
	IsHalfOrder        bool       `json:"is_half_order"`
	SessionID          *string    `json:"session_id,omitempty"`
	MatchedOrderID     *string    `json:"matched_order_id,omitempty"`
	MatchedTableNumber string     `json:"matched_table_number,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Session struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	MenuItemID   string    `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name"`
	OrderID      string    `json:"order_id"`
	TableNumber  string    `json:"table_number"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func toOrder(r queries.OrderResponse) Order {
	items := make([]LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, LineItem{
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			Portion:    item.Portion,
			PricePaise: item.Price.Paise(),
			Price:      item.Price.String(),
		})
	}

	return Order{
		ID:                 r.ID.String(),
		RestaurantID:       r.RestaurantID.String(),
		TableID:            r.TableID.String(),
		TableNumber:        r.TableNumber,
		CustomerName:       r.CustomerName,
		CustomerMobile:     r.CustomerMobile,
		Items:              items,
		TotalPaise:         r.Total.Paise(),
		Total:              r.Total.String(),
		Status:             r.Status,
		IsHalfOrder:        r.IsHalfOrder,
		SessionID:          optionalString(r.SessionID),
		MatchedOrderID:     optionalString(r.MatchedOrderID),
		MatchedTableNumber: r.MatchedTableNumber,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toSession(r queries.SessionResponse) Session {
	return Session{
		ID:           r.ID.String(),
		RestaurantID: r.RestaurantID.String(),
		MenuItemID:   r.MenuItemID.String(),
		MenuItemName: r.MenuItemName,
		OrderID:      r.OrderID.String(),
		TableNumber:  r.TableNumber,
		CustomerName: r.CustomerName,
		Status:       r.Status,
		ExpiresAt:    r.ExpiresAt,
		CreatedAt:    r.CreatedAt,
	}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
