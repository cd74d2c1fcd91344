package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItemOption represents a customization on a menu item, e.g. a size or an
// add-on. PriceModifier may be negative.
type MenuItemOption struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID    uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	PriceModifier decimal.Decimal `gorm:"column:price_modifier;type:numeric(10,2);not null;default:0"`
	IsRequired    bool            `gorm:"column:is_required;not null;default:false"`
	SortOrder     int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
