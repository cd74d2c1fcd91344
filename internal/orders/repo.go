package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// Repository handles order persistence plus the address lookups order
// placement depends on.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists an order together with its snapshot line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with its items and full transition history.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusChanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDWithTx re-reads the bare order row inside a transaction so status
// decisions are made against current state, not the row the request loaded.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var order models.Order
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUser returns a customer's orders, newest first.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByRestaurant returns a restaurant's incoming orders, newest first.
func (r *Repository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateWithTx applies column updates to an order inside a transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

// UpdatePaymentStatus writes the payment state column directly.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("payment_status", status).Error
}

// AppendStatusChangeWithTx records one transition audit row.
func (r *Repository) AppendStatusChangeWithTx(tx *gorm.DB, change *models.OrderStatusChange) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(change).Error
}

// FindAddressByID loads a delivery address for ownership validation.
func (r *Repository) FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
