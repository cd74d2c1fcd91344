package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// Order represents a customer order against a single restaurant. Monetary
// columns are computed server-side at creation and never rewritten.
type Order struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID          uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	AddressID             uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Status                enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'created'"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	Subtotal              decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee           decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	Tax                   decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null;default:0"`
	Total                 decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Notes                 *string             `gorm:"column:notes"`
	EstimatedDeliveryTime *time.Time          `gorm:"column:estimated_delivery_time;type:timestamptz"`
	DeliveredAt           *time.Time          `gorm:"column:delivered_at;type:timestamptz"`
	CanceledAt            *time.Time          `gorm:"column:canceled_at;type:timestamptz"`
	Items                 []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusChanges         []OrderStatusChange `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
