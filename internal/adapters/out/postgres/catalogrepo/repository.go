package catalogrepo

import (
	"context"
	"errors"
	"fmt"

	"halforder/internal/adapters/out/seed"
	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/ports"
	"halforder/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalog implements ports.Catalog.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetMenuItem(ctx context.Context, restaurantID, menuItemID kernel.UUID) (ports.MenuItem, error) {
	var dto MenuItemDTO
	err := c.db.WithContext(ctx).
		First(&dto, "id = ? AND restaurant_id = ?", menuItemID.Bytes(), restaurantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MenuItem{}, errs.NewObjectNotFoundError("menu item", menuItemID.String())
		}
		return ports.MenuItem{}, err
	}
	return menuItemToPort(dto)
}

func (c *GormCatalog) GetTable(ctx context.Context, restaurantID, tableID kernel.UUID) (ports.Table, error) {
	var dto TableDTO
	err := c.db.WithContext(ctx).
		First(&dto, "id = ? AND restaurant_id = ?", tableID.Bytes(), restaurantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Table{}, errs.NewObjectNotFoundError("table", tableID.String())
		}
		return ports.Table{}, err
	}
	return tableToPort(dto)
}

// Seed inserts the demo data. Rows that already exist are left untouched, so
// seeding twice is harmless.
func Seed(ctx context.Context, db *gorm.DB, data seed.Data) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ignore := tx.Clauses(clause.OnConflict{DoNothing: true})

		for _, r := range data.Restaurants {
			dto := RestaurantDTO{ID: r.ID.Bytes(), Name: r.Name, Address: r.Address, Kind: r.Kind}
			if err := ignore.Create(&dto).Error; err != nil {
				return fmt.Errorf("seed restaurant %s: %w", r.Name, err)
			}
		}

		tables := make([]TableDTO, 0, len(data.Tables))
		for _, t := range data.Tables {
			tables = append(tables, tableFromPort(t))
		}
		if err := ignore.Create(&tables).Error; err != nil {
			return fmt.Errorf("seed tables: %w", err)
		}

		items := make([]MenuItemDTO, 0, len(data.MenuItems))
		for _, m := range data.MenuItems {
			items = append(items, menuItemFromPort(m))
		}
		if err := ignore.Create(&items).Error; err != nil {
			return fmt.Errorf("seed menu items: %w", err)
		}
		return nil
	})
}
