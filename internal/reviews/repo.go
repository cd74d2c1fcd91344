package reviews

import (
	"context"
	"fmt"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository handles review persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to review operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new review row.
func (r *Repository) Create(ctx context.Context, dto CreateReviewDTO) (*models.Review, error) {
	review := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindByID loads a review by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindApprovedByRestaurant returns the public review feed, newest first.
func (r *Repository) FindApprovedByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_approved = ?", restaurantID, true).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser returns all reviews written by a user, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindPending returns the moderation queue, oldest first.
func (r *Repository) FindPending(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateWithTx persists the review using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, review *models.Review) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if review == nil {
		return fmt.Errorf("review is required")
	}
	return tx.Save(review).Error
}

// DeleteWithTx removes the review row using the provided transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Review{}, "id = ?", id).Error
}

type approvedAggregate struct {
	Total  int64               `gorm:"column:total"`
	Rating decimal.NullDecimal `gorm:"column:rating"`
}

// AggregateApprovedWithTx recomputes the approved-review aggregate for a
// restaurant inside the caller's transaction. With zero approved reviews the
// returned rating is invalid, mirroring SQL's NULL average.
func (r *Repository) AggregateApprovedWithTx(tx *gorm.DB, restaurantID uuid.UUID) (int64, decimal.NullDecimal, error) {
	if tx == nil {
		return 0, decimal.NullDecimal{}, gorm.ErrInvalidTransaction
	}

	var agg approvedAggregate
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS total, AVG(rating) AS rating").
		Where("restaurant_id = ? AND is_approved = ?", restaurantID, true).
		Scan(&agg).Error; err != nil {
		return 0, decimal.NullDecimal{}, err
	}
	return agg.Total, agg.Rating, nil
}
