// Package catalogrepo reads menu items and tables maintained by the surrounding
// restaurant management application, and can seed them for demos.
package catalogrepo

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"

	"github.com/google/uuid"
)

type RestaurantDTO struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Name      string    `gorm:"size:128"`
	Address   string    `gorm:"size:256"`
	Kind      string    `gorm:"size:16"`
	CreatedAt time.Time
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type TableDTO struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	RestaurantID uuid.UUID `gorm:"type:varchar(36);index"`
	Number       string    `gorm:"size:16"`
	Active       bool
}

func (TableDTO) TableName() string {
	return "restaurant_tables"
}

type MenuItemDTO struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	RestaurantID   uuid.UUID `gorm:"type:varchar(36);index"`
	Name           string    `gorm:"size:128"`
	Category       string    `gorm:"size:64"`
	FullPricePaise int64
	HalfPricePaise *int64
	Available      bool
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

func tableFromPort(t ports.Table) TableDTO {
	return TableDTO{
		ID:           t.ID.Bytes(),
		RestaurantID: t.RestaurantID.Bytes(),
		Number:       t.Number,
		Active:       t.Active,
	}
}

func tableToPort(dto TableDTO) (ports.Table, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Table{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return ports.Table{}, err
	}
	return ports.Table{ID: id, RestaurantID: restaurantID, Number: dto.Number, Active: dto.Active}, nil
}

func menuItemFromPort(m ports.MenuItem) MenuItemDTO {
	dto := MenuItemDTO{
		ID:             m.ID.Bytes(),
		RestaurantID:   m.RestaurantID.Bytes(),
		Name:           m.Name,
		Category:       m.Category,
		FullPricePaise: m.FullPrice.Paise(),
		Available:      m.Available,
	}
	if m.HalfPrice != nil {
		half := m.HalfPrice.Paise()
		dto.HalfPricePaise = &half
	}
	return dto
}

func menuItemToPort(dto MenuItemDTO) (ports.MenuItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.MenuItem{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return ports.MenuItem{}, err
	}
	full, err := kernel.NewMoney(dto.FullPricePaise)
	if err != nil {
		return ports.MenuItem{}, err
	}

	item := ports.MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         dto.Name,
		Category:     dto.Category,
		FullPrice:    full,
		Available:    dto.Available,
	}
	if dto.HalfPricePaise != nil {
		half, halfErr := kernel.NewMoney(*dto.HalfPricePaise)
		if halfErr != nil {
			return ports.MenuItem{}, halfErr
		}
		item.HalfPrice = &half
	}
	return item, nil
}
