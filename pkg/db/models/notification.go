package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users. Rows are
// written in the same transaction as the mutation they announce.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Kind      enums.NotificationKind `gorm:"type:notification_kind;not null"`
	Title     string                 `gorm:"type:text;not null"`
	Body      string                 `gorm:"type:text;not null"`
	OrderID   *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	ReviewID  *uuid.UUID             `gorm:"column:review_id;type:uuid"`
	ReadAt    *time.Time             `gorm:"type:timestamptz"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()"`
}
