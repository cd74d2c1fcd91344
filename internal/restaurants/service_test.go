package restaurants

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, stubAuthorizer{})
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresAuthorizer(t *testing.T) {
	_, err := NewService(&stubRestaurantRepo{}, nil)
	if err == nil {
		t.Fatal("expected error creating service without authorizer")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	restaurant := baseRestaurant()
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), restaurant.ID)
	if err != nil {
		t.Fatalf("get restaurant: %v", err)
	}
	if dto.ID != restaurant.ID {
		t.Fatalf("expected id %s got %s", restaurant.ID, dto.ID)
	}
	if dto.Name != restaurant.Name {
		t.Fatalf("expected name %s got %s", restaurant.Name, dto.Name)
	}
	if dto.DeliveryFee != 3.5 {
		t.Fatalf("expected delivery fee 3.5 got %v", dto.DeliveryFee)
	}
	if dto.Rating == nil || *dto.Rating != 4.25 {
		t.Fatalf("expected rating 4.25 got %v", dto.Rating)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := &stubRestaurantRepo{err: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceGetByIDHidesNullRating(t *testing.T) {
	restaurant := baseRestaurant()
	restaurant.Rating = decimal.NullDecimal{}
	restaurant.TotalReviews = 0
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), restaurant.ID)
	if err != nil {
		t.Fatalf("get restaurant: %v", err)
	}
	if dto.Rating != nil {
		t.Fatalf("expected nil rating for unreviewed restaurant, got %v", *dto.Rating)
	}
	if dto.TotalReviews != 0 {
		t.Fatalf("expected zero total reviews, got %d", dto.TotalReviews)
	}
}

func TestServiceListDependencyError(t *testing.T) {
	repo := &stubRestaurantRepo{err: errors.New("boom")}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.List(context.Background())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := &stubRestaurantRepo{}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	actorID := uuid.New()
	dto, err := svc.Create(context.Background(), actorID, CreateRestaurantInput{
		Name:         "  Casa Verde  ",
		AddressLine1: "12 Elm St",
		City:         "Portland",
		State:        "OR",
		PostalCode:   "97201",
		CuisineTags:  []string{"mexican"},
		DeliveryFee:  decimal.RequireFromString("4.99"),
	})
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	if dto.Name != "Casa Verde" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.OwnerID != actorID {
		t.Fatalf("expected owner %s got %s", actorID, dto.OwnerID)
	}
	if !dto.IsActive {
		t.Fatal("expected new restaurant active by default")
	}
	if dto.Rating != nil {
		t.Fatalf("expected nil rating on new restaurant, got %v", dto.Rating)
	}
}

func TestServiceCreateForbidden(t *testing.T) {
	repo := &stubRestaurantRepo{}
	svc, err := NewService(repo, stubAuthorizer{createErr: pkgerrors.New(pkgerrors.CodeForbidden, "nope")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), uuid.New(), CreateRestaurantInput{Name: "X"})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
	if repo.created {
		t.Fatal("expected no create call after authz denial")
	}
}

func TestServiceCreateRejectsNegativeFee(t *testing.T) {
	svc, err := NewService(&stubRestaurantRepo{}, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Create(context.Background(), uuid.New(), CreateRestaurantInput{
		Name:        "X",
		DeliveryFee: decimal.RequireFromString("-1"),
	})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", gotErr)
	}
}

func TestServiceUpdateSuccess(t *testing.T) {
	restaurant := baseRestaurant()
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	newName := "Renamed Kitchen"
	newTags := []string{"thai", "noodles"}
	inactive := false
	dto, err := svc.Update(context.Background(), restaurant.OwnerID, restaurant.ID, UpdateRestaurantInput{
		Name:        &newName,
		CuisineTags: &newTags,
		IsActive:    &inactive,
	})
	if err != nil {
		t.Fatalf("update restaurant: %v", err)
	}
	if dto.Name != newName {
		t.Fatalf("expected name %q got %q", newName, dto.Name)
	}
	if len(dto.CuisineTags) != 2 || dto.CuisineTags[0] != "thai" {
		t.Fatalf("expected cuisine tags updated, got %v", dto.CuisineTags)
	}
	if dto.IsActive {
		t.Fatal("expected restaurant deactivated")
	}
	if repo.updated == nil {
		t.Fatal("expected repo update call")
	}
}

func TestServiceUpdateForbidden(t *testing.T) {
	restaurant := baseRestaurant()
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc, err := NewService(repo, stubAuthorizer{manageErr: pkgerrors.New(pkgerrors.CodeForbidden, "nope")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.Update(context.Background(), uuid.New(), restaurant.ID, UpdateRestaurantInput{})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", gotErr)
	}
	if repo.updated != nil {
		t.Fatal("expected no update after authz denial")
	}
}

func TestServiceDeleteSuccess(t *testing.T) {
	restaurant := baseRestaurant()
	repo := &stubRestaurantRepo{restaurant: restaurant}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Delete(context.Background(), restaurant.OwnerID, restaurant.ID); err != nil {
		t.Fatalf("delete restaurant: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected repo delete call")
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	repo := &stubRestaurantRepo{err: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, stubAuthorizer{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func baseRestaurant() *models.Restaurant {
	rating := decimal.RequireFromString("4.25")
	return &models.Restaurant{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Name:         "Test Kitchen",
		AddressLine1: "123 Main St",
		City:         "Portland",
		State:        "OR",
		PostalCode:   "97201",
		CuisineTags:  []string{"pizza"},
		DeliveryFee:  decimal.RequireFromString("3.50"),
		IsActive:     true,
		Rating:       decimal.NullDecimal{Decimal: rating, Valid: true},
		TotalReviews: 12,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

type stubRestaurantRepo struct {
	restaurant *models.Restaurant
	err        error
	created    bool
	updated    *models.Restaurant
	deleted    bool
}

func (s *stubRestaurantRepo) Create(ctx context.Context, dto CreateRestaurantDTO) (*models.Restaurant, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = true
	model := dto.ToModel()
	model.ID = uuid.New()
	return model, nil
}

func (s *stubRestaurantRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	return s.restaurant, s.err
}

func (s *stubRestaurantRepo) FindActive(ctx context.Context) ([]models.Restaurant, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.restaurant == nil {
		return nil, nil
	}
	return []models.Restaurant{*s.restaurant}, nil
}

func (s *stubRestaurantRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Restaurant, error) {
	return s.FindActive(ctx)
}

func (s *stubRestaurantRepo) Update(ctx context.Context, restaurant *models.Restaurant) error {
	if s.err != nil {
		return s.err
	}
	s.updated = restaurant
	return nil
}

func (s *stubRestaurantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = true
	return nil
}

type stubAuthorizer struct {
	createErr error
	manageErr error
}

func (s stubAuthorizer) CanCreateRestaurant(ctx context.Context, userID uuid.UUID) error {
	return s.createErr
}

func (s stubAuthorizer) CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error {
	return s.manageErr
}
