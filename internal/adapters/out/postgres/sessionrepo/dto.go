// Package sessionrepo maps half-order sessions to the half_order_sessions table.
package sessionrepo

import (
	"time"

	"halforder/internal/core/domain/model/kernel"
	"halforder/internal/core/domain/model/order"
	"halforder/internal/core/domain/model/session"

	"github.com/google/uuid"
)

type SessionDTO struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	RestaurantID   uuid.UUID `gorm:"type:varchar(36);index:idx_sessions_restaurant_status,priority:1"`
	MenuItemID     uuid.UUID `gorm:"type:varchar(36)"`
	MenuItemName   string    `gorm:"size:128"`
	OrderID        uuid.UUID `gorm:"type:varchar(36);uniqueIndex"`
	TableID        uuid.UUID `gorm:"type:varchar(36)"`
	TableNumber    string    `gorm:"size:16"`
	CustomerName   string    `gorm:"size:128"`
	CustomerMobile string    `gorm:"size:32"`
	Status         int       `gorm:"index:idx_sessions_restaurant_status,priority:2;index:idx_sessions_status_expires,priority:1"`
	ExpiresAt      time.Time `gorm:"index:idx_sessions_status_expires,priority:2"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
	Version        int
}

func (SessionDTO) TableName() string {
	return "half_order_sessions"
}

func fromDomain(s *session.Session) SessionDTO {
	snap := s.Snapshot()
	return SessionDTO{
		ID:             snap.ID.Bytes(),
		RestaurantID:   snap.RestaurantID.Bytes(),
		MenuItemID:     snap.MenuItemID.Bytes(),
		MenuItemName:   snap.MenuItemName,
		OrderID:        snap.OrderID.Bytes(),
		TableID:        snap.Table.ID.Bytes(),
		TableNumber:    snap.Table.Number,
		CustomerName:   snap.Customer.Name,
		CustomerMobile: snap.Customer.Mobile,
		Status:         int(snap.Status),
		ExpiresAt:      snap.ExpiresAt,
		CreatedAt:      snap.CreatedAt,
		UpdatedAt:      snap.UpdatedAt,
		Version:        snap.Version,
	}
}

func toDomain(dto SessionDTO) (*session.Session, error) {
	raw := []uuid.UUID{dto.ID, dto.RestaurantID, dto.MenuItemID, dto.OrderID, dto.TableID}
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return session.RestoreSession(session.Snapshot{
		ID:           ids[0],
		RestaurantID: ids[1],
		MenuItemID:   ids[2],
		MenuItemName: dto.MenuItemName,
		OrderID:      ids[3],
		Table:        order.Table{ID: ids[4], Number: dto.TableNumber},
		Customer:     order.Customer{Name: dto.CustomerName, Mobile: dto.CustomerMobile},
		Status:       session.Status(dto.Status),
		ExpiresAt:    dto.ExpiresAt,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		Version:      dto.Version,
	})
}
