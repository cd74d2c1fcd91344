package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/api/responses"
	"github.com/dineline-app/dineline-backend/api/validators"
	"github.com/dineline-app/dineline-backend/internal/restaurants"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

type createRestaurantRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=160"`
	Description  *string  `json:"description,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	AddressLine1 string   `json:"address_line1" validate:"required"`
	AddressLine2 *string  `json:"address_line2,omitempty"`
	City         string   `json:"city" validate:"required"`
	State        string   `json:"state" validate:"required"`
	PostalCode   string   `json:"postal_code" validate:"required"`
	CuisineTags  []string `json:"cuisine_tags,omitempty"`
	DeliveryFee  float64  `json:"delivery_fee" validate:"gte=0"`
}

func (r createRestaurantRequest) toInput() restaurants.CreateRestaurantInput {
	return restaurants.CreateRestaurantInput{
		Name:         r.Name,
		Description:  r.Description,
		Phone:        r.Phone,
		Email:        r.Email,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		CuisineTags:  r.CuisineTags,
		DeliveryFee:  decimal.NewFromFloat(r.DeliveryFee),
	}
}

type updateRestaurantRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	Description  *string   `json:"description,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	PostalCode   *string   `json:"postal_code,omitempty"`
	CuisineTags  *[]string `json:"cuisine_tags,omitempty"`
	DeliveryFee  *float64  `json:"delivery_fee,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

func (r updateRestaurantRequest) toInput() restaurants.UpdateRestaurantInput {
	input := restaurants.UpdateRestaurantInput{
		Name:         r.Name,
		Description:  r.Description,
		Phone:        r.Phone,
		Email:        r.Email,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		CuisineTags:  r.CuisineTags,
		IsActive:     r.IsActive,
	}
	if r.DeliveryFee != nil {
		fee := decimal.NewFromFloat(*r.DeliveryFee)
		input.DeliveryFee = &fee
	}
	return input
}

// ListRestaurants returns the public directory of active restaurants.
func ListRestaurants(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetRestaurant returns a single restaurant by id, active or not.
func GetRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		restaurantID, err := parsePathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetByID(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurant)
	}
}

// ListOwnerRestaurants returns every restaurant owned by the acting user.
func ListOwnerRestaurants(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByOwner(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateRestaurant registers a new restaurant owned by the acting user.
func CreateRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Create(r.Context(), actorID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, restaurant)
	}
}

// UpdateRestaurant adjusts profile fields. The derived rating columns are
// not part of the request surface, so clients cannot write them.
func UpdateRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := parsePathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Update(r.Context(), actorID, restaurantID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, restaurant)
	}
}

// DeleteRestaurant removes a restaurant and its dependent rows.
func DeleteRestaurant(svc restaurants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurants service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurantID, err := parsePathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, restaurantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
