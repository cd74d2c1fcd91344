package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
)

// ReviewDTO exposes review data in API responses.
type ReviewDTO struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	UserID       uuid.UUID  `json:"user_id"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	Rating       int        `json:"rating"`
	Comment      *string    `json:"comment,omitempty"`
	IsApproved   bool       `json:"is_approved"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateReviewDTO holds creation-time data for a new review.
type CreateReviewDTO struct {
	RestaurantID uuid.UUID
	UserID       uuid.UUID
	OrderID      *uuid.UUID
	Rating       int
	Comment      *string
}

// FromModel maps the persisted review into a DTO.
func FromModel(m *models.Review) *ReviewDTO {
	if m == nil {
		return nil
	}
	return &ReviewDTO{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		UserID:       m.UserID,
		OrderID:      m.OrderID,
		Rating:       m.Rating,
		Comment:      m.Comment,
		IsApproved:   m.IsApproved,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToModel prepares the GORM model. New reviews always start unapproved; the
// moderation flow is the only writer of is_approved.
func (c CreateReviewDTO) ToModel() *models.Review {
	return &models.Review{
		RestaurantID: c.RestaurantID,
		UserID:       c.UserID,
		OrderID:      c.OrderID,
		Rating:       c.Rating,
		Comment:      c.Comment,
		IsApproved:   false,
	}
}
