package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one menu line at order time. Name and UnitPrice are
// frozen copies so later menu edits never rewrite order history; MenuItemID
// is nulled when the source item is deleted.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID *uuid.UUID      `gorm:"column:menu_item_id;type:uuid"`
	Name       string          `gorm:"column:name;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(10,2);not null"`
}
