package models

import (
	"time"

	"github.com/google/uuid"
)

// Review represents customer feedback on a restaurant. Rows always start
// unapproved; only approved rows feed the restaurant rating aggregate.
type Review struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null;index"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID      *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Rating       int        `gorm:"column:rating;not null"`
	Comment      *string    `gorm:"column:comment"`
	IsApproved   bool       `gorm:"column:is_approved;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
