package restaurants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

// restaurantRepo is the persistence surface the service consumes.
type restaurantRepo interface {
	Create(ctx context.Context, dto CreateRestaurantDTO) (*models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindActive(ctx context.Context) ([]models.Restaurant, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// authorizer covers the capability checks restaurant mutations need.
type authorizer interface {
	CanCreateRestaurant(ctx context.Context, userID uuid.UUID) error
	CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error
}

// Service exposes the restaurant directory and management operations.
type Service interface {
	List(ctx context.Context) ([]*RestaurantDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*RestaurantDTO, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateRestaurantInput) (*RestaurantDTO, error)
	Update(ctx context.Context, actorID, restaurantID uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error)
	Delete(ctx context.Context, actorID, restaurantID uuid.UUID) error
}

type service struct {
	repo  restaurantRepo
	authz authorizer
}

// NewService wires restaurant dependencies.
func NewService(repo restaurantRepo, authz authorizer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurants repo is required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	return &service{repo: repo, authz: authz}, nil
}

// CreateRestaurantInput holds caller-supplied fields for a new restaurant.
type CreateRestaurantInput struct {
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
}

// UpdateRestaurantInput carries optional profile updates. The derived rating
// columns are not part of this surface.
type UpdateRestaurantInput struct {
	Name         *string
	Description  *string
	Phone        *string
	Email        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	PostalCode   *string
	CuisineTags  *[]string
	DeliveryFee  *decimal.Decimal
	IsActive     *bool
}

func (s *service) List(ctx context.Context) ([]*RestaurantDTO, error) {
	rows, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing restaurants")
	}
	return toDTOs(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(restaurant), nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*RestaurantDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	rows, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing owner restaurants")
	}
	return toDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateRestaurantInput) (*RestaurantDTO, error) {
	if err := s.authz.CanCreateRestaurant(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name is required")
	}
	if input.DeliveryFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}

	restaurant, err := s.repo.Create(ctx, CreateRestaurantDTO{
		OwnerID:      actorID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Phone:        input.Phone,
		Email:        input.Email,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		CuisineTags:  input.CuisineTags,
		DeliveryFee:  input.DeliveryFee,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) Update(ctx context.Context, actorID, restaurantID uuid.UUID, input UpdateRestaurantInput) (*RestaurantDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant name cannot be empty")
		}
		restaurant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		restaurant.Description = input.Description
	}
	if input.Phone != nil {
		restaurant.Phone = input.Phone
	}
	if input.Email != nil {
		restaurant.Email = input.Email
	}
	if input.AddressLine1 != nil {
		restaurant.AddressLine1 = *input.AddressLine1
	}
	if input.AddressLine2 != nil {
		restaurant.AddressLine2 = input.AddressLine2
	}
	if input.City != nil {
		restaurant.City = *input.City
	}
	if input.State != nil {
		restaurant.State = *input.State
	}
	if input.PostalCode != nil {
		restaurant.PostalCode = *input.PostalCode
	}
	if input.CuisineTags != nil {
		restaurant.CuisineTags = append([]string(nil), *input.CuisineTags...)
	}
	if input.DeliveryFee != nil {
		if input.DeliveryFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
		}
		restaurant.DeliveryFee = *input.DeliveryFee
	}
	if input.IsActive != nil {
		restaurant.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating restaurant")
	}
	return FromModel(restaurant), nil
}

func (s *service) Delete(ctx context.Context, actorID, restaurantID uuid.UUID) error {
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, restaurantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting restaurant")
	}
	return nil
}

func (s *service) loadRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading restaurant")
	}
	return restaurant, nil
}

func toDTOs(rows []models.Restaurant) []*RestaurantDTO {
	dtos := make([]*RestaurantDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos
}
