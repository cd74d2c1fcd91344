package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// OrderStatusChange is an append-only audit row recorded with every applied
// order transition, in the same transaction as the status write.
type OrderStatusChange struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	FromStatus enums.OrderStatus `gorm:"column:from_status;type:order_status;not null"`
	ToStatus   enums.OrderStatus `gorm:"column:to_status;type:order_status;not null"`
	ChangedBy  uuid.UUID         `gorm:"column:changed_by;type:uuid;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
