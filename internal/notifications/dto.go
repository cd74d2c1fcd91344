package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// NotificationDTO is the API shape for a single in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Kind      enums.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	OrderID   *uuid.UUID             `json:"order_id,omitempty"`
	ReviewID  *uuid.UUID             `json:"review_id,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// FromModel maps a notification row to its DTO.
func FromModel(notification *models.Notification) *NotificationDTO {
	if notification == nil {
		return nil
	}
	return &NotificationDTO{
		ID:        notification.ID,
		Kind:      notification.Kind,
		Title:     notification.Title,
		Body:      notification.Body,
		OrderID:   notification.OrderID,
		ReviewID:  notification.ReviewID,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}

func toDTOs(rows []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
