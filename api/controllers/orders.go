package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/api/responses"
	"github.com/dineline-app/dineline-backend/api/validators"
	"github.com/dineline-app/dineline-backend/internal/orders"
	"github.com/dineline-app/dineline-backend/pkg/enums"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
	"github.com/dineline-app/dineline-backend/pkg/logger"
)

const maxOrderNotesLength = 500

type createOrderRequest struct {
	RestaurantID string                   `json:"restaurant_id" validate:"required,uuid"`
	AddressID    string                   `json:"address_id" validate:"required,uuid"`
	Notes        *string                  `json:"notes,omitempty"`
	Items        []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

func (r createOrderRequest) toInput() (orders.CreateOrderInput, error) {
	restaurantID, err := uuid.Parse(r.RestaurantID)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
	}
	addressID, err := uuid.Parse(r.AddressID)
	if err != nil {
		return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address id")
	}

	input := orders.CreateOrderInput{
		RestaurantID: restaurantID,
		AddressID:    addressID,
		Items:        make([]orders.CreateOrderItemInput, 0, len(r.Items)),
	}
	if r.Notes != nil {
		notes := validators.SanitizeString(*r.Notes, maxOrderNotesLength)
		if notes != "" {
			input.Notes = &notes
		}
	}
	for _, item := range r.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return orders.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id")
		}
		input.Items = append(input.Items, orders.CreateOrderItemInput{
			MenuItemID: menuItemID,
			Quantity:   item.Quantity,
		})
	}
	return input, nil
}

type advanceStatusRequest struct {
	Status                string     `json:"status" validate:"required"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
}

func (r advanceStatusRequest) toInput() (orders.AdvanceStatusInput, error) {
	status, err := enums.ParseOrderStatus(r.Status)
	if err != nil {
		return orders.AdvanceStatusInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	return orders.AdvanceStatusInput{
		Status:                status,
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
	}, nil
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// CreateOrder places an order. Line prices come from the menu rows current
// at placement time, never from the request.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), actorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders returns the acting user's orders, newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListRestaurantOrders returns incoming orders for a restaurant the acting
// user manages.
func ListRestaurantOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		list, err := svc.ListForRestaurant(r.Context(), actorID, restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrder returns the order detail for its customer, the restaurant owner,
// or an admin.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), actorID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// TrackOrder returns the order plus its derived progress step, percent, and
// delivery estimate text.
func TrackOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tracking, err := svc.Track(r.Context(), actorID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tracking)
	}
}

// CancelOrder cancels an order that has not left the kitchen yet.
func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), actorID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdvanceOrderStatus moves an order one step forward through its lifecycle.
func AdvanceOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload advanceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AdvanceStatus(r.Context(), actorID, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// SetOrderPaymentStatus records the payment outcome for an order.
func SetOrderPaymentStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actorID, err := parseActorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(payload.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		order, err := svc.SetPaymentStatus(r.Context(), actorID, orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
