package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem represents a sellable dish on a restaurant menu.
type MenuItem struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	Category     string           `gorm:"column:category;not null"`
	Price        decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable  bool             `gorm:"column:is_available;not null;default:true"`
	ImageURL     *string          `gorm:"column:image_url"`
	SortOrder    int              `gorm:"column:sort_order;not null;default:0"`
	Options      []MenuItemOption `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
