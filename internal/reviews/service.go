package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db"
	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

const (
	minRating = 1
	maxRating = 5
)

// reviewRepo is the persistence surface the service consumes.
type reviewRepo interface {
	Create(ctx context.Context, dto CreateReviewDTO) (*models.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindApprovedByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Review, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error)
	FindPending(ctx context.Context) ([]models.Review, error)
	UpdateWithTx(tx *gorm.DB, review *models.Review) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
	AggregateApprovedWithTx(tx *gorm.DB, restaurantID uuid.UUID) (int64, decimal.NullDecimal, error)
}

// restaurantRatingRepo resolves restaurants and owns the derived columns.
type restaurantRatingRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	UpdateRatingWithTx(tx *gorm.DB, restaurantID uuid.UUID, rating decimal.NullDecimal, totalReviews int) error
}

// orderFinder validates order references on review creation.
type orderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// notifier writes notification rows inside the moderation transaction.
type notifier interface {
	CreateWithTx(tx *gorm.DB, notification *models.Notification) error
}

// authorizer covers the capability checks review operations need.
type authorizer interface {
	CanSubmitReview(ctx context.Context, userID uuid.UUID) error
	CanModerateReviews(ctx context.Context, userID uuid.UUID) error
	CanDeleteReview(ctx context.Context, userID, authorID uuid.UUID) error
}

// txRunner executes a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes review submission, listing, moderation, and deletion. Any
// mutation that changes the approved set recomputes the restaurant's rating
// aggregate in the same transaction, so readers never observe a review state
// that disagrees with the restaurant's rating and total_reviews columns.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*ReviewDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ReviewDTO, error)
	ListPending(ctx context.Context, actorID uuid.UUID) ([]*ReviewDTO, error)
	Moderate(ctx context.Context, actorID, reviewID uuid.UUID, approve bool) (*ReviewDTO, error)
	Delete(ctx context.Context, actorID, reviewID uuid.UUID) error
}

type service struct {
	repo          reviewRepo
	restaurants   restaurantRatingRepo
	orders        orderFinder
	notifications notifier
	authz         authorizer
	tx            txRunner
}

// NewService wires review dependencies.
func NewService(repo reviewRepo, restaurants restaurantRatingRepo, orders orderFinder, notifications notifier, authz authorizer, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repo is required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurants repo is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders repo is required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notifications repo is required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		repo:          repo,
		restaurants:   restaurants,
		orders:        orders,
		notifications: notifications,
		authz:         authz,
		tx:            tx,
	}, nil
}

// CreateReviewInput holds caller-supplied fields for a new review.
type CreateReviewInput struct {
	RestaurantID uuid.UUID
	OrderID      *uuid.UUID
	Rating       int
	Comment      *string
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if err := s.authz.CanSubmitReview(ctx, actorID); err != nil {
		return nil, err
	}
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.loadRestaurant(ctx, input.RestaurantID); err != nil {
		return nil, err
	}
	if input.OrderID != nil {
		order, err := s.orders.FindByID(ctx, *input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}
		if order.UserID != actorID || order.RestaurantID != input.RestaurantID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order does not belong to this user and restaurant")
		}
	}

	review, err := s.repo.Create(ctx, CreateReviewDTO{
		RestaurantID: input.RestaurantID,
		UserID:       actorID,
		OrderID:      input.OrderID,
		Rating:       input.Rating,
		Comment:      input.Comment,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_reviews_user_order") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating review")
	}
	return FromModel(review), nil
}

func (s *service) ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*ReviewDTO, error) {
	if _, err := s.loadRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindApprovedByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing user reviews")
	}
	return toDTOs(rows), nil
}

func (s *service) ListPending(ctx context.Context, actorID uuid.UUID) ([]*ReviewDTO, error) {
	if err := s.authz.CanModerateReviews(ctx, actorID); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pending reviews")
	}
	return toDTOs(rows), nil
}

// Moderate approves or un-approves a review. Approval is idempotent: a second
// approval changes nothing but still recomputes the aggregate. Rejecting a
// pending review is a no-op. Un-approving an approved review returns it to
// the moderation queue and recomputes, keeping the aggregate equal to the
// approved set.
func (s *service) Moderate(ctx context.Context, actorID, reviewID uuid.UUID, approve bool) (*ReviewDTO, error) {
	if err := s.authz.CanModerateReviews(ctx, actorID); err != nil {
		return nil, err
	}
	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !approve && !review.IsApproved {
		return FromModel(review), nil
	}

	becameApproved := approve && !review.IsApproved
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if review.IsApproved != approve {
			review.IsApproved = approve
			if err := s.repo.UpdateWithTx(tx, review); err != nil {
				return err
			}
		}
		if err := s.recomputeRestaurantRating(tx, review.RestaurantID); err != nil {
			return err
		}
		if becameApproved {
			return s.notifications.CreateWithTx(tx, &models.Notification{
				UserID:   review.UserID,
				Kind:     enums.NotificationKindReviewApproved,
				Title:    "Review approved",
				Body:     "Your review is now public.",
				ReviewID: &review.ID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "moderating review")
	}
	return FromModel(review), nil
}

func (s *service) Delete(ctx context.Context, actorID, reviewID uuid.UUID) error {
	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeleteReview(ctx, actorID, review.UserID); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteWithTx(tx, review.ID); err != nil {
			return err
		}
		if review.IsApproved {
			return s.recomputeRestaurantRating(tx, review.RestaurantID)
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting review")
	}
	return nil
}

// recomputeRestaurantRating rebuilds the derived rating columns from the
// approved set. Zero approved reviews clears rating to NULL rather than 0.
func (s *service) recomputeRestaurantRating(tx *gorm.DB, restaurantID uuid.UUID) error {
	total, avg, err := s.repo.AggregateApprovedWithTx(tx, restaurantID)
	if err != nil {
		return err
	}

	rating := decimal.NullDecimal{}
	if total > 0 && avg.Valid {
		rating = decimal.NullDecimal{Decimal: avg.Decimal.Round(2), Valid: true}
	}
	return s.restaurants.UpdateRatingWithTx(tx, restaurantID, rating, int(total))
}

func (s *service) loadRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading restaurant")
	}
	return restaurant, nil
}

func (s *service) loadReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading review")
	}
	return review, nil
}

func toDTOs(rows []models.Review) []*ReviewDTO {
	dtos := make([]*ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos
}
