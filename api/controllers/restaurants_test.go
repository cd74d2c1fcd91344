package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/api/middleware"
	"github.com/dineline-app/dineline-backend/internal/restaurants"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

type testRestaurantsService struct {
	listFn        func(ctx context.Context) ([]*restaurants.RestaurantDTO, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*restaurants.RestaurantDTO, error)
	listByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]*restaurants.RestaurantDTO, error)
	createFn      func(ctx context.Context, actorID uuid.UUID, input restaurants.CreateRestaurantInput) (*restaurants.RestaurantDTO, error)
	updateFn      func(ctx context.Context, actorID, restaurantID uuid.UUID, input restaurants.UpdateRestaurantInput) (*restaurants.RestaurantDTO, error)
	deleteFn      func(ctx context.Context, actorID, restaurantID uuid.UUID) error
}

func (s *testRestaurantsService) List(ctx context.Context) ([]*restaurants.RestaurantDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testRestaurantsService) GetByID(ctx context.Context, id uuid.UUID) (*restaurants.RestaurantDTO, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *testRestaurantsService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*restaurants.RestaurantDTO, error) {
	if s.listByOwnerFn != nil {
		return s.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (s *testRestaurantsService) Create(ctx context.Context, actorID uuid.UUID, input restaurants.CreateRestaurantInput) (*restaurants.RestaurantDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, actorID, input)
	}
	return nil, nil
}

func (s *testRestaurantsService) Update(ctx context.Context, actorID, restaurantID uuid.UUID, input restaurants.UpdateRestaurantInput) (*restaurants.RestaurantDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, actorID, restaurantID, input)
	}
	return nil, nil
}

func (s *testRestaurantsService) Delete(ctx context.Context, actorID, restaurantID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, actorID, restaurantID)
	}
	return nil
}

func TestListRestaurantsSuccess(t *testing.T) {
	rating := 4.5
	svc := &testRestaurantsService{
		listFn: func(ctx context.Context) ([]*restaurants.RestaurantDTO, error) {
			return []*restaurants.RestaurantDTO{
				{ID: uuid.New(), Name: "Thai Garden", DeliveryFee: 2.5, Rating: &rating, TotalReviews: 12, IsActive: true},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil)
	resp := httptest.NewRecorder()
	handler := ListRestaurants(svc, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data []struct {
			Name        string   `json:"name"`
			DeliveryFee float64  `json:"delivery_fee"`
			Rating      *float64 `json:"rating"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one restaurant got %d", len(envelope.Data))
	}
	if envelope.Data[0].Name != "Thai Garden" {
		t.Fatalf("unexpected name %q", envelope.Data[0].Name)
	}
	if envelope.Data[0].DeliveryFee != 2.5 {
		t.Fatalf("expected numeric delivery fee, got %v", envelope.Data[0].DeliveryFee)
	}
	if envelope.Data[0].Rating == nil || *envelope.Data[0].Rating != 4.5 {
		t.Fatalf("unexpected rating %v", envelope.Data[0].Rating)
	}
}

func TestGetRestaurantInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/nope", nil)
	req = addRouteParam(req, "restaurantId", "nope")
	resp := httptest.NewRecorder()
	handler := GetRestaurant(&testRestaurantsService{}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetRestaurantNotFoundPassesThrough(t *testing.T) {
	svc := &testRestaurantsService{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*restaurants.RestaurantDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/"+uuid.NewString(), nil)
	req = addRouteParam(req, "restaurantId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler := GetRestaurant(svc, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "restaurant not found" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCreateRestaurantSuccess(t *testing.T) {
	userID := uuid.New()
	var captured restaurants.CreateRestaurantInput
	svc := &testRestaurantsService{
		createFn: func(ctx context.Context, actorID uuid.UUID, input restaurants.CreateRestaurantInput) (*restaurants.RestaurantDTO, error) {
			if actorID != userID {
				t.Fatalf("unexpected actor %s", actorID)
			}
			captured = input
			return &restaurants.RestaurantDTO{ID: uuid.New(), OwnerID: actorID, Name: input.Name}, nil
		},
	}

	body := `{"name":"Casa Lupe","address_line1":"12 Mission St","city":"San Jose","state":"CA","postal_code":"95112","cuisine_tags":["mexican"],"delivery_fee":3.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler := CreateRestaurant(svc, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Name != "Casa Lupe" {
		t.Fatalf("unexpected name %q", captured.Name)
	}
	if !captured.DeliveryFee.Equal(decimal.NewFromFloat(3.5)) {
		t.Fatalf("unexpected delivery fee %s", captured.DeliveryFee)
	}
	if len(captured.CuisineTags) != 1 || captured.CuisineTags[0] != "mexican" {
		t.Fatalf("unexpected cuisine tags %v", captured.CuisineTags)
	}
}

func TestCreateRestaurantRequiresUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", strings.NewReader(`{"name":"x"}`))
	resp := httptest.NewRecorder()
	handler := CreateRestaurant(&testRestaurantsService{}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCreateRestaurantRejectsUnknownFields(t *testing.T) {
	body := `{"name":"Casa Lupe","address_line1":"12 Mission St","city":"San Jose","state":"CA","postal_code":"95112","rating":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler := CreateRestaurant(&testRestaurantsService{}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field got %d", resp.Code)
	}
}

func TestUpdateRestaurantForbiddenPassesThrough(t *testing.T) {
	svc := &testRestaurantsService{
		updateFn: func(ctx context.Context, actorID, restaurantID uuid.UUID, input restaurants.UpdateRestaurantInput) (*restaurants.RestaurantDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant access denied")
		},
	}
	restaurantID := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/restaurants/"+restaurantID.String(), strings.NewReader(`{"name":"New Name"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "restaurantId", restaurantID.String())
	resp := httptest.NewRecorder()
	handler := UpdateRestaurant(svc, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestDeleteRestaurantSuccess(t *testing.T) {
	userID := uuid.New()
	restaurantID := uuid.New()
	called := false
	svc := &testRestaurantsService{
		deleteFn: func(ctx context.Context, actorID, rid uuid.UUID) error {
			called = true
			if actorID != userID || rid != restaurantID {
				t.Fatalf("unexpected args %s %s", actorID, rid)
			}
			return nil
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/restaurants/"+restaurantID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = addRouteParam(req, "restaurantId", restaurantID.String())
	resp := httptest.NewRecorder()
	handler := DeleteRestaurant(svc, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
