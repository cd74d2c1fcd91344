package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dineline-app/dineline-backend/api/responses"
	"github.com/dineline-app/dineline-backend/api/validators"
	"github.com/dineline-app/dineline-backend/internal/menu"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

type createMenuItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=160"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}

func (r createMenuItemRequest) toInput() menu.CreateMenuItemInput {
	return menu.CreateMenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       decimal.NewFromFloat(r.Price),
		IsAvailable: r.IsAvailable,
		ImageURL:    r.ImageURL,
		SortOrder:   r.SortOrder,
	}
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type createOptionRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=160"`
	PriceModifier float64 `json:"price_modifier"`
	IsRequired    *bool   `json:"is_required,omitempty"`
	SortOrder     *int    `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}

func (r createOptionRequest) toInput() menu.CreateOptionInput {
	return menu.CreateOptionInput{
		Name:          r.Name,
		PriceModifier: decimal.NewFromFloat(r.PriceModifier),
		IsRequired:    r.IsRequired,
		SortOrder:     r.SortOrder,
	}
}

type updateOptionRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	PriceModifier *float64 `json:"price_modifier,omitempty"`
	IsRequired    *bool    `json:"is_required,omitempty"`
	SortOrder     *int     `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}

func (r updateOptionRequest) toInput() menu.UpdateOptionInput {
	input := menu.UpdateOptionInput{
		Name:       r.Name,
		IsRequired: r.IsRequired,
		SortOrder:  r.SortOrder,
	}
	if r.PriceModifier != nil {
		modifier := decimal.NewFromFloat(*r.PriceModifier)
		input.PriceModifier = &modifier
	}
	return input
}

// RestaurantMenu returns the available menu for a restaurant. Reads go
// through the redis-backed cache.
func RestaurantMenu(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		restaurantID, err := parsePathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListForRestaurant(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetMenuItem returns a single menu item with its options.
func GetMenuItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		menuItemID, err := parsePathID(r, "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), menuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CreateMenuItem adds an item to the restaurant's menu.
func CreateMenuItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
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

		var payload createMenuItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), actorID, restaurantID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateMenuItemAvailability flips the sold-out flag on a menu item.
func UpdateMenuItemAvailability(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parsePathID(r, "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItemAvailability(r.Context(), actorID, menuItemID, *payload.IsAvailable)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ListMenuItemOptions returns the option rows for one menu item.
func ListMenuItemOptions(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		menuItemID, err := parsePathID(r, "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := svc.ListOptions(r.Context(), menuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// CreateMenuItemOption adds an option to a menu item.
func CreateMenuItemOption(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menuItemID, err := parsePathID(r, "menuItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.CreateOption(r.Context(), actorID, menuItemID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, option)
	}
}

// UpdateMenuItemOption adjusts an option's fields.
func UpdateMenuItemOption(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		optionID, err := parsePathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := svc.UpdateOption(r.Context(), actorID, optionID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, option)
	}
}

// DeleteMenuItemOption removes an option from a menu item.
func DeleteMenuItemOption(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		optionID, err := parsePathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOption(r.Context(), actorID, optionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
