package restaurants

import (
	"context"
	"fmt"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository handles restaurant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to restaurant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new restaurant row.
func (r *Repository) Create(ctx context.Context, dto CreateRestaurantDTO) (*models.Restaurant, error) {
	restaurant := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}

// FindByID loads a restaurant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindActive returns restaurants currently accepting orders, sorted by name.
func (r *Repository) FindActive(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// FindByOwner returns all restaurants owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Update saves the provided restaurant. The derived rating columns are
// omitted so profile edits can never clobber a concurrent recompute.
func (r *Repository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant == nil {
		return fmt.Errorf("restaurant is required")
	}
	return r.db.WithContext(ctx).
		Omit("rating", "total_reviews", "MenuItems").
		Save(restaurant).Error
}

// Delete removes the restaurant row; child rows cascade in the database.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Restaurant{}, "id = ?", id).Error
}

// UpdateRatingWithTx writes the derived rating columns inside the caller's
// transaction. An invalid NullDecimal clears rating back to NULL.
func (r *Repository) UpdateRatingWithTx(tx *gorm.DB, restaurantID uuid.UUID, rating decimal.NullDecimal, totalReviews int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		UpdateColumns(map[string]any{
			"rating":        rating,
			"total_reviews": totalReviews,
		}).Error
}
