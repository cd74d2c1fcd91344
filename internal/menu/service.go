package menu

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
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

// menuRepo is the persistence surface the service consumes.
type menuRepo interface {
	CreateItem(ctx context.Context, dto CreateMenuItemDTO) (*models.MenuItem, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindAvailableByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	CreateOption(ctx context.Context, dto CreateOptionDTO) (*models.MenuItemOption, error)
	FindOptionByID(ctx context.Context, id uuid.UUID) (*models.MenuItemOption, error)
	FindOptionsByItem(ctx context.Context, menuItemID uuid.UUID) ([]models.MenuItemOption, error)
	UpdateOption(ctx context.Context, option *models.MenuItemOption) error
	DeleteOption(ctx context.Context, id uuid.UUID) error
}

// restaurantFinder resolves restaurants for existence and ownership checks.
type restaurantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// authorizer covers the capability checks menu mutations need.
type authorizer interface {
	CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error
}

// menuCache is the read-through cache in front of the menu listing.
type menuCache interface {
	Get(ctx context.Context, restaurantID uuid.UUID) ([]*MenuItemDTO, bool, error)
	Set(ctx context.Context, restaurantID uuid.UUID, items []*MenuItemDTO) error
	Invalidate(ctx context.Context, restaurantID uuid.UUID) error
}

// Service exposes menu browsing and management operations.
type Service interface {
	ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*MenuItemDTO, error)
	GetItem(ctx context.Context, menuItemID uuid.UUID) (*MenuItemDTO, error)
	CreateItem(ctx context.Context, actorID, restaurantID uuid.UUID, input CreateMenuItemInput) (*MenuItemDTO, error)
	UpdateItemAvailability(ctx context.Context, actorID, menuItemID uuid.UUID, available bool) (*MenuItemDTO, error)
	ListOptions(ctx context.Context, menuItemID uuid.UUID) ([]*MenuItemOptionDTO, error)
	CreateOption(ctx context.Context, actorID, menuItemID uuid.UUID, input CreateOptionInput) (*MenuItemOptionDTO, error)
	UpdateOption(ctx context.Context, actorID, optionID uuid.UUID, input UpdateOptionInput) (*MenuItemOptionDTO, error)
	DeleteOption(ctx context.Context, actorID, optionID uuid.UUID) error
}

type service struct {
	repo        menuRepo
	restaurants restaurantFinder
	authz       authorizer
	cache       menuCache
	logg        *logger.Logger
}

// NewService wires menu dependencies.
func NewService(repo menuRepo, restaurants restaurantFinder, authz authorizer, cache menuCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repo is required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurants repo is required")
	}
	if authz == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("menu cache is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{repo: repo, restaurants: restaurants, authz: authz, cache: cache, logg: logg}, nil
}

// CreateMenuItemInput holds caller-supplied fields for a new menu item.
type CreateMenuItemInput struct {
	Name        string
	Description *string
	Category    string
	Price       decimal.Decimal
	IsAvailable *bool
	ImageURL    *string
	SortOrder   *int
}

// CreateOptionInput holds caller-supplied fields for a new option.
type CreateOptionInput struct {
	Name          string
	PriceModifier decimal.Decimal
	IsRequired    *bool
	SortOrder     *int
}

// UpdateOptionInput carries optional option updates.
type UpdateOptionInput struct {
	Name          *string
	PriceModifier *decimal.Decimal
	IsRequired    *bool
	SortOrder     *int
}

func (s *service) ListForRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*MenuItemDTO, error) {
	if _, err := s.loadRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	if items, ok, err := s.cache.Get(ctx, restaurantID); err != nil {
		s.cacheDegraded(ctx, "menu cache read failed", err)
	} else if ok {
		return items, nil
	}

	rows, err := s.repo.FindAvailableByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing menu")
	}

	items := itemsToDTOs(rows)
	if err := s.cache.Set(ctx, restaurantID, items); err != nil {
		s.cacheDegraded(ctx, "menu cache write failed", err)
	}
	return items, nil
}

func (s *service) GetItem(ctx context.Context, menuItemID uuid.UUID) (*MenuItemDTO, error) {
	item, err := s.loadItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	return ItemFromModel(item), nil
}

func (s *service) CreateItem(ctx context.Context, actorID, restaurantID uuid.UUID, input CreateMenuItemInput) (*MenuItemDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item, err := s.repo.CreateItem(ctx, CreateMenuItemDTO{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Category:     input.Category,
		Price:        input.Price,
		IsAvailable:  input.IsAvailable,
		ImageURL:     input.ImageURL,
		SortOrder:    input.SortOrder,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating menu item")
	}

	s.invalidateMenu(ctx, restaurantID)
	return ItemFromModel(item), nil
}

func (s *service) UpdateItemAvailability(ctx context.Context, actorID, menuItemID uuid.UUID, available bool) (*MenuItemDTO, error) {
	item, err := s.loadItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.loadRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}

	item.IsAvailable = available
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating menu item")
	}

	s.invalidateMenu(ctx, item.RestaurantID)
	return ItemFromModel(item), nil
}

func (s *service) ListOptions(ctx context.Context, menuItemID uuid.UUID) ([]*MenuItemOptionDTO, error) {
	if _, err := s.loadItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindOptionsByItem(ctx, menuItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing options")
	}

	dtos := make([]*MenuItemOptionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, OptionFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateOption(ctx context.Context, actorID, menuItemID uuid.UUID, input CreateOptionInput) (*MenuItemOptionDTO, error) {
	item, err := s.loadItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.loadRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option name is required")
	}

	option, err := s.repo.CreateOption(ctx, CreateOptionDTO{
		MenuItemID:    menuItemID,
		Name:          strings.TrimSpace(input.Name),
		PriceModifier: input.PriceModifier,
		IsRequired:    input.IsRequired,
		SortOrder:     input.SortOrder,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating option")
	}

	s.invalidateMenu(ctx, item.RestaurantID)
	return OptionFromModel(option), nil
}

func (s *service) UpdateOption(ctx context.Context, actorID, optionID uuid.UUID, input UpdateOptionInput) (*MenuItemOptionDTO, error) {
	option, item, err := s.loadOptionWithItem(ctx, optionID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.loadRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "option name cannot be empty")
		}
		option.Name = strings.TrimSpace(*input.Name)
	}
	if input.PriceModifier != nil {
		option.PriceModifier = *input.PriceModifier
	}
	if input.IsRequired != nil {
		option.IsRequired = *input.IsRequired
	}
	if input.SortOrder != nil {
		option.SortOrder = *input.SortOrder
	}

	if err := s.repo.UpdateOption(ctx, option); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating option")
	}

	s.invalidateMenu(ctx, item.RestaurantID)
	return OptionFromModel(option), nil
}

func (s *service) DeleteOption(ctx context.Context, actorID, optionID uuid.UUID) error {
	option, item, err := s.loadOptionWithItem(ctx, optionID)
	if err != nil {
		return err
	}
	restaurant, err := s.loadRestaurant(ctx, item.RestaurantID)
	if err != nil {
		return err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return err
	}

	if err := s.repo.DeleteOption(ctx, option.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting option")
	}

	s.invalidateMenu(ctx, item.RestaurantID)
	return nil
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

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu item")
	}
	return item, nil
}

func (s *service) loadOptionWithItem(ctx context.Context, optionID uuid.UUID) (*models.MenuItemOption, *models.MenuItem, error) {
	option, err := s.repo.FindOptionByID(ctx, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "option not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading option")
	}
	item, err := s.loadItem(ctx, option.MenuItemID)
	if err != nil {
		return nil, nil, err
	}
	return option, item, nil
}

func (s *service) invalidateMenu(ctx context.Context, restaurantID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, restaurantID); err != nil {
		s.cacheDegraded(ctx, "menu cache invalidation failed", err)
	}
}

func (s *service) cacheDegraded(ctx context.Context, msg string, err error) {
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}

func itemsToDTOs(rows []models.MenuItem) []*MenuItemDTO {
	dtos := make([]*MenuItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ItemFromModel(&rows[i]))
	}
	return dtos
}
