package menu

import (
	"context"
	"fmt"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles menu item and option persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to menu operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, name ASC")
}

// CreateItem persists a new menu item row.
func (r *Repository) CreateItem(ctx context.Context, dto CreateMenuItemDTO) (*models.MenuItem, error) {
	item := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemByID loads a menu item with its options.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAvailableByRestaurant returns the orderable menu for a restaurant,
// options included, in display order.
func (r *Repository) FindAvailableByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("sort_order ASC, name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemsByIDs returns the subset of ids that exist on the restaurant's
// menu. Callers compare lengths to detect foreign or missing items.
func (r *Repository) FindItemsByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem saves the provided menu item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is required")
	}
	return r.db.WithContext(ctx).
		Omit("Options").
		Save(item).Error
}

// CreateOption persists a new option row.
func (r *Repository) CreateOption(ctx context.Context, dto CreateOptionDTO) (*models.MenuItemOption, error) {
	option := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(option).Error; err != nil {
		return nil, err
	}
	return option, nil
}

// FindOptionByID loads an option by its UUID.
func (r *Repository) FindOptionByID(ctx context.Context, id uuid.UUID) (*models.MenuItemOption, error) {
	var option models.MenuItemOption
	if err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

// FindOptionsByItem returns all options on a menu item in display order.
func (r *Repository) FindOptionsByItem(ctx context.Context, menuItemID uuid.UUID) ([]models.MenuItemOption, error) {
	var options []models.MenuItemOption
	if err := r.db.WithContext(ctx).
		Where("menu_item_id = ?", menuItemID).
		Order("sort_order ASC, name ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// UpdateOption saves the provided option.
func (r *Repository) UpdateOption(ctx context.Context, option *models.MenuItemOption) error {
	if option == nil {
		return fmt.Errorf("option is required")
	}
	return r.db.WithContext(ctx).Save(option).Error
}

// DeleteOption removes the option row.
func (r *Repository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MenuItemOption{}, "id = ?", id).Error
}
