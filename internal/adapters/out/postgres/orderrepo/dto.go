// Package orderrepo maps Order aggregates to the orders table. Line items are kept
// in a JSON column because they are written once and only ever read with the order.
package orderrepo

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Ids are stored as text so the same schema works on
// Postgres and MySQL.
type OrderDTO struct {
	ID                 uuid.UUID     `gorm:"type:varchar(36);primaryKey"`
	RestaurantID       uuid.UUID     `gorm:"type:varchar(36);index:idx_orders_restaurant_created,priority:1"`
	TableID            uuid.UUID     `gorm:"type:varchar(36)"`
	TableNumber        string        `gorm:"size:16"`
	CustomerName       string        `gorm:"size:128"`
	CustomerMobile     string        `gorm:"size:32;index"`
	Items              []LineItemDTO `gorm:"serializer:json;type:text"`
	TotalPaise         int64
	Status             int        `gorm:"index"`
	SessionID          *uuid.UUID `gorm:"type:varchar(36)"`
	MatchedOrderID     *uuid.UUID `gorm:"type:varchar(36)"`
	MatchedTableNumber string     `gorm:"size:16"`
	CreatedAt          time.Time  `gorm:"autoCreateTime:false;index:idx_orders_restaurant_created,priority:2"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime:false"`
	Version            int
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the items JSON column.
type LineItemDTO struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Portion    string    `json:"portion"`
	PricePaise int64     `json:"price_paise"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	items := make([]LineItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, LineItemDTO{
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			Portion:    item.Portion().String(),
			PricePaise: item.Price().Paise(),
		})
	}

	return OrderDTO{
		ID:                 s.ID.Bytes(),
		RestaurantID:       s.RestaurantID.Bytes(),
		TableID:            s.Table.ID.Bytes(),
		TableNumber:        s.Table.Number,
		CustomerName:       s.Customer.Name,
		CustomerMobile:     s.Customer.Mobile,
		Items:              items,
		TotalPaise:         s.Total.Paise(),
		Status:             int(s.Status),
		SessionID:          optionalID(s.SessionID),
		MatchedOrderID:     optionalID(s.MatchedOrderID),
		MatchedTableNumber: s.MatchedTableNumber,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		Version:            s.Version,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.RestaurantID, dto.TableID)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		line, lineErr := lineItemToDomain(item)
		if lineErr != nil {
			return nil, lineErr
		}
		items = append(items, line)
	}

	total, err := kernel.NewMoney(dto.TotalPaise)
	if err != nil {
		return nil, err
	}

	sessionID, err := restoreOptionalID(dto.SessionID)
	if err != nil {
		return nil, err
	}
	matchedOrderID, err := restoreOptionalID(dto.MatchedOrderID)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 ids[0],
		RestaurantID:       ids[1],
		Table:              order.Table{ID: ids[2], Number: dto.TableNumber},
		Customer:           order.Customer{Name: dto.CustomerName, Mobile: dto.CustomerMobile},
		Items:              items,
		Total:              total,
		Status:             order.Status(dto.Status),
		SessionID:          sessionID,
		MatchedOrderID:     matchedOrderID,
		MatchedTableNumber: dto.MatchedTableNumber,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
	})
}

func lineItemToDomain(dto LineItemDTO) (order.LineItem, error) {
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return order.LineItem{}, err
	}
	portion, err := order.ParsePortion(dto.Portion)
	if err != nil {
		return order.LineItem{}, err
	}
	price, err := kernel.NewMoney(dto.PricePaise)
	if err != nil {
		return order.LineItem{}, err
	}
	return order.NewLineItem(menuItemID, dto.Name, portion, price)
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
