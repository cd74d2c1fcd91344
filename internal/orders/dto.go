package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
)

// OrderDTO is the API shape for a customer order.
type OrderDTO struct {
	ID                    uuid.UUID           `json:"id"`
	UserID                uuid.UUID           `json:"user_id"`
	RestaurantID          uuid.UUID           `json:"restaurant_id"`
	AddressID             uuid.UUID           `json:"address_id"`
	Status                enums.OrderStatus   `json:"status"`
	PaymentStatus         enums.PaymentStatus `json:"payment_status"`
	Subtotal              float64             `json:"subtotal"`
	DeliveryFee           float64             `json:"delivery_fee"`
	Tax                   float64             `json:"tax"`
	Total                 float64             `json:"total"`
	Notes                 *string             `json:"notes,omitempty"`
	EstimatedDeliveryTime *time.Time          `json:"estimated_delivery_time,omitempty"`
	DeliveredAt           *time.Time          `json:"delivered_at,omitempty"`
	CanceledAt            *time.Time          `json:"canceled_at,omitempty"`
	Items                 []OrderItemDTO      `json:"items"`
	StatusHistory         []StatusChangeDTO   `json:"status_history"`
	CreatedAt             time.Time           `json:"created_at"`
}

// OrderItemDTO is a snapshot line on an order.
type OrderItemDTO struct {
	ID         uuid.UUID  `json:"id"`
	MenuItemID *uuid.UUID `json:"menu_item_id,omitempty"`
	Name       string     `json:"name"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	LineTotal  float64    `json:"line_total"`
}

// StatusChangeDTO is one entry in an order's transition audit trail.
type StatusChangeDTO struct {
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	ChangedBy  uuid.UUID         `json:"changed_by"`
	CreatedAt  time.Time         `json:"created_at"`
}

// TrackingDTO is the tracker payload derived from an order's current state.
type TrackingDTO struct {
	OrderID               uuid.UUID         `json:"order_id"`
	Status                enums.OrderStatus `json:"status"`
	Step                  int               `json:"step"`
	Percent               int               `json:"percent"`
	ETAText               string            `json:"eta_text"`
	EstimatedDeliveryTime *time.Time        `json:"estimated_delivery_time,omitempty"`
}

// FromModel maps an order row and its loaded associations to the API shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(order.Items))
	for i := range order.Items {
		items = append(items, itemFromModel(&order.Items[i]))
	}
	history := make([]StatusChangeDTO, 0, len(order.StatusChanges))
	for i := range order.StatusChanges {
		history = append(history, changeFromModel(&order.StatusChanges[i]))
	}

	return &OrderDTO{
		ID:                    order.ID,
		UserID:                order.UserID,
		RestaurantID:          order.RestaurantID,
		AddressID:             order.AddressID,
		Status:                order.Status,
		PaymentStatus:         order.PaymentStatus,
		Subtotal:              order.Subtotal.InexactFloat64(),
		DeliveryFee:           order.DeliveryFee.InexactFloat64(),
		Tax:                   order.Tax.InexactFloat64(),
		Total:                 order.Total.InexactFloat64(),
		Notes:                 order.Notes,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		DeliveredAt:           order.DeliveredAt,
		CanceledAt:            order.CanceledAt,
		Items:                 items,
		StatusHistory:         history,
		CreatedAt:             order.CreatedAt,
	}
}

func itemFromModel(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:         item.ID,
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice.InexactFloat64(),
		Quantity:   item.Quantity,
		LineTotal:  item.LineTotal.InexactFloat64(),
	}
}

func changeFromModel(change *models.OrderStatusChange) StatusChangeDTO {
	return StatusChangeDTO{
		FromStatus: change.FromStatus,
		ToStatus:   change.ToStatus,
		ChangedBy:  change.ChangedBy,
		CreatedAt:  change.CreatedAt,
	}
}

func toDTOs(rows []models.Order) []*OrderDTO {
	dtos := make([]*OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos
}
