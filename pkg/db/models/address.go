package models

import (
	"time"

	"github.com/google/uuid"
)

// Address represents a saved delivery address. The address book surface lives
// in the identity system; orders reference these rows by id.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label      *string   `gorm:"column:label"`
	Line1      string    `gorm:"column:line1;not null"`
	Line2      *string   `gorm:"column:line2"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
