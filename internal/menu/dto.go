package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
)

// MenuItemDTO exposes a menu item with its options. This shape is also what
// the redis menu cache stores, so every field must round-trip through JSON.
type MenuItemDTO struct {
	ID           uuid.UUID           `json:"id"`
	RestaurantID uuid.UUID           `json:"restaurant_id"`
	Name         string              `json:"name"`
	Description  *string             `json:"description,omitempty"`
	Category     string              `json:"category"`
	Price        float64             `json:"price"`
	IsAvailable  bool                `json:"is_available"`
	ImageURL     *string             `json:"image_url,omitempty"`
	SortOrder    int                 `json:"sort_order"`
	Options      []MenuItemOptionDTO `json:"options"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// MenuItemOptionDTO exposes a single customization on a menu item.
type MenuItemOptionDTO struct {
	ID            uuid.UUID `json:"id"`
	MenuItemID    uuid.UUID `json:"menu_item_id"`
	Name          string    `json:"name"`
	PriceModifier float64   `json:"price_modifier"`
	IsRequired    bool      `json:"is_required"`
	SortOrder     int       `json:"sort_order"`
}

// CreateMenuItemDTO holds creation-time data for a new menu item.
type CreateMenuItemDTO struct {
	RestaurantID uuid.UUID
	Name         string
	Description  *string
	Category     string
	Price        decimal.Decimal
	IsAvailable  *bool
	ImageURL     *string
	SortOrder    *int
}

// CreateOptionDTO holds creation-time data for a new menu item option.
type CreateOptionDTO struct {
	MenuItemID    uuid.UUID
	Name          string
	PriceModifier decimal.Decimal
	IsRequired    *bool
	SortOrder     *int
}

// ItemFromModel maps the persisted menu item into a DTO.
func ItemFromModel(m *models.MenuItem) *MenuItemDTO {
	if m == nil {
		return nil
	}

	dto := &MenuItemDTO{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		Name:         m.Name,
		Description:  m.Description,
		Category:     m.Category,
		Price:        m.Price.InexactFloat64(),
		IsAvailable:  m.IsAvailable,
		ImageURL:     m.ImageURL,
		SortOrder:    m.SortOrder,
		Options:      make([]MenuItemOptionDTO, 0, len(m.Options)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for i := range m.Options {
		dto.Options = append(dto.Options, *OptionFromModel(&m.Options[i]))
	}
	return dto
}

// OptionFromModel maps the persisted option into a DTO.
func OptionFromModel(m *models.MenuItemOption) *MenuItemOptionDTO {
	if m == nil {
		return nil
	}
	return &MenuItemOptionDTO{
		ID:            m.ID,
		MenuItemID:    m.MenuItemID,
		Name:          m.Name,
		PriceModifier: m.PriceModifier.InexactFloat64(),
		IsRequired:    m.IsRequired,
		SortOrder:     m.SortOrder,
	}
}

// ToModel prepares the GORM model from creation data, supplying defaults.
func (c CreateMenuItemDTO) ToModel() *models.MenuItem {
	model := &models.MenuItem{
		RestaurantID: c.RestaurantID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		Price:        c.Price,
		IsAvailable:  true,
		ImageURL:     c.ImageURL,
	}
	if c.IsAvailable != nil {
		model.IsAvailable = *c.IsAvailable
	}
	if c.SortOrder != nil {
		model.SortOrder = *c.SortOrder
	}
	return model
}

// ToModel prepares the GORM model from creation data, supplying defaults.
func (c CreateOptionDTO) ToModel() *models.MenuItemOption {
	model := &models.MenuItemOption{
		MenuItemID:    c.MenuItemID,
		Name:          c.Name,
		PriceModifier: c.PriceModifier,
	}
	if c.IsRequired != nil {
		model.IsRequired = *c.IsRequired
	}
	if c.SortOrder != nil {
		model.SortOrder = *c.SortOrder
	}
	return model
}
