package restaurants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
)

// RestaurantDTO exposes restaurant data in API responses. Rating is null
// until the restaurant has at least one approved review.
type RestaurantDTO struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	CuisineTags  []string  `json:"cuisine_tags"`
	DeliveryFee  float64   `json:"delivery_fee"`
	IsActive     bool      `json:"is_active"`
	Rating       *float64  `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRestaurantDTO holds creation-time data for a new restaurant.
type CreateRestaurantDTO struct {
	OwnerID      uuid.UUID
	Name         string
	Description  *string
	Phone        *string
	Email        *string
	AddressLine1 string
	AddressLine2 *string
	City         string
	State        string
	PostalCode   string
	CuisineTags  []string
	DeliveryFee  decimal.Decimal
	IsActive     *bool
}

// FromModel maps the persisted restaurant into a DTO.
func FromModel(m *models.Restaurant) *RestaurantDTO {
	if m == nil {
		return nil
	}

	dto := &RestaurantDTO{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Description:  m.Description,
		Phone:        m.Phone,
		Email:        m.Email,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		City:         m.City,
		State:        m.State,
		PostalCode:   m.PostalCode,
		CuisineTags:  append([]string(nil), []string(m.CuisineTags)...),
		DeliveryFee:  m.DeliveryFee.InexactFloat64(),
		IsActive:     m.IsActive,
		TotalReviews: m.TotalReviews,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if dto.CuisineTags == nil {
		dto.CuisineTags = []string{}
	}
	if m.Rating.Valid {
		rating := m.Rating.Decimal.InexactFloat64()
		dto.Rating = &rating
	}

	return dto
}

// ToModel prepares the GORM model from creation data, supplying defaults.
func (c CreateRestaurantDTO) ToModel() *models.Restaurant {
	model := &models.Restaurant{
		OwnerID:      c.OwnerID,
		Name:         c.Name,
		Description:  c.Description,
		Phone:        c.Phone,
		Email:        c.Email,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		State:        c.State,
		PostalCode:   c.PostalCode,
		CuisineTags:  append([]string(nil), c.CuisineTags...),
		DeliveryFee:  c.DeliveryFee,
		IsActive:     true,
		TotalReviews: 0,
	}

	if model.CuisineTags == nil {
		model.CuisineTags = []string{}
	}
	if c.IsActive != nil {
		model.IsActive = *c.IsActive
	}

	return model
}
