package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Restaurant represents a marketplace storefront owned by a restaurant_owner
// user. Rating and TotalReviews are derived columns: they mirror the approved
// review set and are only ever written by the reviews aggregate recompute.
type Restaurant struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      uuid.UUID           `gorm:"column:owner_id;type:uuid;not null"`
	Name         string              `gorm:"column:name;not null"`
	Description  *string             `gorm:"column:description"`
	Phone        *string             `gorm:"column:phone"`
	Email        *string             `gorm:"column:email"`
	AddressLine1 string              `gorm:"column:address_line1;not null"`
	AddressLine2 *string             `gorm:"column:address_line2"`
	City         string              `gorm:"column:city;not null"`
	State        string              `gorm:"column:state;not null"`
	PostalCode   string              `gorm:"column:postal_code;not null"`
	CuisineTags  pq.StringArray      `gorm:"column:cuisine_tags;type:text[];default:ARRAY[]::text[]"`
	DeliveryFee  decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	IsActive     bool                `gorm:"column:is_active;not null;default:true"`
	Rating       decimal.NullDecimal `gorm:"column:rating;type:numeric(3,2)"`
	TotalReviews int                 `gorm:"column:total_reviews;not null;default:0"`
	MenuItems    []MenuItem          `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
