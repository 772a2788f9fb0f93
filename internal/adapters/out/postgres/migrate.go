package postgres

import (
	"context"
	"fmt"

	"halforder/internal/adapters/out/postgres/catalogrepo"
	"halforder/internal/adapters/out/postgres/orderrepo"
	"halforder/internal/adapters/out/postgres/outboxrepo"
	"halforder/internal/adapters/out/postgres/sessionrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the engine reads or writes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.TableDTO{},
		&catalogrepo.MenuItemDTO{},
		&orderrepo.OrderDTO{},
		&sessionrepo.SessionDTO{},
		&outboxrepo.MessageDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
