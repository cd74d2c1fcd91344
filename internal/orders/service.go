package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

// orderRepo is the persistence surface the service consumes.
type orderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error)
	UpdateWithTx(tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error
	AppendStatusChangeWithTx(tx *gorm.DB, change *models.OrderStatusChange) error
	FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

// restaurantFinder resolves the restaurant an order targets.
type restaurantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// menuReader loads the menu rows an order snapshots.
type menuReader interface {
	FindItemsByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error)
}

// notifier writes notification rows inside the transition transaction.
type notifier interface {
	CreateWithTx(tx *gorm.DB, notification *models.Notification) error
}

// authorizer covers the capability checks order operations need.
type authorizer interface {
	CanPlaceOrder(ctx context.Context, userID uuid.UUID) error
	CanViewOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error
	CanCancelOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error
	CanAdvanceOrder(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error
	CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error
}

// txRunner executes a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// orderTransitions is the full lifecycle table. Cancellation branches off
// until the kitchen hands the order to a driver; delivered and canceled are
// terminal.
var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusCreated:        {enums.OrderStatusConfirmed, enums.OrderStatusCanceled},
	enums.OrderStatusConfirmed:      {enums.OrderStatusPreparing, enums.OrderStatusCanceled},
	enums.OrderStatusPreparing:      {enums.OrderStatusOutForDelivery, enums.OrderStatusCanceled},
	enums.OrderStatusOutForDelivery: {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:      {},
	enums.OrderStatusCanceled:       {},
}

func canTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range orderTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Service exposes order placement, reads, tracking, and lifecycle
// transitions. Every applied transition writes the status column, an audit
// row, and a customer notification in one transaction.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	ListForUser(ctx context.Context, actorID uuid.UUID) ([]*OrderDTO, error)
	ListForRestaurant(ctx context.Context, actorID, restaurantID uuid.UUID) ([]*OrderDTO, error)
	GetByID(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error)
	Track(ctx context.Context, actorID, orderID uuid.UUID) (*TrackingDTO, error)
	Cancel(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error)
	AdvanceStatus(ctx context.Context, actorID, orderID uuid.UUID, input AdvanceStatusInput) (*OrderDTO, error)
	SetPaymentStatus(ctx context.Context, actorID, orderID uuid.UUID, status enums.PaymentStatus) (*OrderDTO, error)
}

type service struct {
	repo          orderRepo
	restaurants   restaurantFinder
	menu          menuReader
	notifications notifier
	authz         authorizer
	tx            txRunner
	taxRate       decimal.Decimal
}

// NewService wires order dependencies. taxRate is a fraction of the
// subtotal, e.g. 0.08.
func NewService(repo orderRepo, restaurants restaurantFinder, menu menuReader, notifications notifier, authz authorizer, tx txRunner, taxRate decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repo is required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurants repo is required")
	}
	if menu == nil {
		return nil, fmt.Errorf("menu repo is required")
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
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	return &service{
		repo:          repo,
		restaurants:   restaurants,
		menu:          menu,
		notifications: notifications,
		authz:         authz,
		tx:            tx,
		taxRate:       taxRate,
	}, nil
}

// CreateOrderInput holds caller-supplied fields for a new order.
type CreateOrderInput struct {
	RestaurantID uuid.UUID
	AddressID    uuid.UUID
	Notes        *string
	Items        []CreateOrderItemInput
}

// CreateOrderItemInput selects one menu item and a quantity.
type CreateOrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// AdvanceStatusInput carries the target status and the optional delivery
// estimate a restaurant attaches while advancing.
type AdvanceStatusInput struct {
	Status                enums.OrderStatus
	EstimatedDeliveryTime *time.Time
}

// Create places an order: it snapshots the selected menu lines, prices the
// order server-side, and persists everything atomically. Submitted prices
// are never trusted; the menu rows current at placement time are.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if err := s.authz.CanPlaceOrder(ctx, actorID); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	restaurant, err := s.loadRestaurant(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "restaurant is not accepting orders")
	}

	address, err := s.repo.FindAddressByID(ctx, input.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading address")
	}
	if address.UserID != actorID {
		// Foreign addresses read as absent so the API never confirms
		// another user's address ids.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}

	menuItems, err := s.loadMenuItems(ctx, input.RestaurantID, input.Items)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, line := range input.Items {
		menuItem := menuItems[line.MenuItemID]
		menuItemID := menuItem.ID
		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			MenuItemID: &menuItemID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
			LineTotal:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	order := &models.Order{
		UserID:        actorID,
		RestaurantID:  restaurant.ID,
		AddressID:     address.ID,
		Status:        enums.OrderStatusCreated,
		PaymentStatus: enums.PaymentStatusPending,
		Subtotal:      subtotal,
		DeliveryFee:   restaurant.DeliveryFee,
		Tax:           tax,
		Total:         subtotal.Add(restaurant.DeliveryFee).Add(tax),
		Notes:         input.Notes,
		Items:         items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
	}
	return FromModel(order), nil
}

// loadMenuItems resolves every referenced menu row and reports all line
// problems at once instead of stopping at the first.
func (s *service) loadMenuItems(ctx context.Context, restaurantID uuid.UUID, lines []CreateOrderItemInput) (map[uuid.UUID]models.MenuItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	var invalid error
	for _, line := range lines {
		if line.Quantity < 1 {
			invalid = multierr.Append(invalid, fmt.Errorf("menu item %s: quantity must be at least 1", line.MenuItemID))
		}
		if _, ok := seen[line.MenuItemID]; ok {
			continue
		}
		seen[line.MenuItemID] = struct{}{}
		ids = append(ids, line.MenuItemID)
	}

	rows, err := s.menu.FindItemsByIDs(ctx, restaurantID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading menu items")
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	for id := range seen {
		row, ok := byID[id]
		if !ok {
			invalid = multierr.Append(invalid, fmt.Errorf("menu item %s is not on this menu", id))
			continue
		}
		if !row.IsAvailable {
			invalid = multierr.Append(invalid, fmt.Errorf("menu item %q is unavailable", row.Name))
		}
	}
	if invalid != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, invalid, "invalid order items")
	}
	return byID, nil
}

func (s *service) ListForUser(ctx context.Context, actorID uuid.UUID) ([]*OrderDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.FindByUser(ctx, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return toDTOs(rows), nil
}

func (s *service) ListForRestaurant(ctx context.Context, actorID, restaurantID uuid.UUID) ([]*OrderDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanManageRestaurant(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing restaurant orders")
	}
	return toDTOs(rows), nil
}

func (s *service) GetByID(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, restaurant, err := s.loadOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewOrder(ctx, actorID, order.UserID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// Track derives the customer-facing progress payload from the order's
// current status and delivery estimate.
func (s *service) Track(ctx context.Context, actorID, orderID uuid.UUID) (*TrackingDTO, error) {
	order, restaurant, err := s.loadOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanViewOrder(ctx, actorID, order.UserID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	return &TrackingDTO{
		OrderID:               order.ID,
		Status:                order.Status,
		Step:                  StatusStep(order.Status),
		Percent:               ProgressPercent(order.Status),
		ETAText:               ETAText(order.EstimatedDeliveryTime, order.Status, time.Now().UTC()),
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
	}, nil
}

func (s *service) Cancel(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, restaurant, err := s.loadOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanCancelOrder(ctx, actorID, order.UserID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actorID, order, enums.OrderStatusCanceled, nil)
}

func (s *service) AdvanceStatus(ctx context.Context, actorID, orderID uuid.UUID, input AdvanceStatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, restaurant, err := s.loadOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAdvanceOrder(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actorID, order, input.Status, input.EstimatedDeliveryTime)
}

func (s *service) SetPaymentStatus(ctx context.Context, actorID, orderID uuid.UUID, status enums.PaymentStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	order, restaurant, err := s.loadOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CanAdvanceOrder(ctx, actorID, restaurant.OwnerID); err != nil {
		return nil, err
	}
	if order.PaymentStatus == status {
		return FromModel(order), nil
	}
	if err := s.repo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating payment status")
	}
	order.PaymentStatus = status
	return FromModel(order), nil
}

// transition validates and applies one status change. The status column,
// the audit row, and the customer notification commit together; the check
// runs against a re-read of the row so concurrent transitions serialize
// instead of clobbering each other.
func (s *service) transition(ctx context.Context, actorID uuid.UUID, order *models.Order, target enums.OrderStatus, eta *time.Time) (*OrderDTO, error) {
	changed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		current, err := s.repo.FindByIDWithTx(tx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
		}
		if current.Status == target {
			return nil
		}
		if !canTransition(current.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", current.Status, target))
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": target}
		if eta != nil {
			updates["estimated_delivery_time"] = *eta
		}
		switch target {
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
		case enums.OrderStatusCanceled:
			updates["canceled_at"] = now
		}
		if err := s.repo.UpdateWithTx(tx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
		}

		change := &models.OrderStatusChange{
			OrderID:    order.ID,
			FromStatus: current.Status,
			ToStatus:   target,
			ChangedBy:  actorID,
		}
		if err := s.repo.AppendStatusChangeWithTx(tx, change); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording status change")
		}

		notification := &models.Notification{
			UserID:  current.UserID,
			Kind:    enums.NotificationKindOrderStatus,
			Title:   "Order update",
			Body:    statusMessage(target),
			OrderID: &order.ID,
		}
		if err := s.notifications.CreateWithTx(tx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing notification")
		}
		changed = true
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "applying order transition")
	}
	if !changed {
		return FromModel(order), nil
	}

	reloaded, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading order")
	}
	return FromModel(reloaded), nil
}

// statusMessage is the notification body a customer reads for each status.
func statusMessage(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusConfirmed:
		return "The restaurant confirmed your order."
	case enums.OrderStatusPreparing:
		return "Your food is being prepared."
	case enums.OrderStatusOutForDelivery:
		return "Your order is on its way!"
	case enums.OrderStatusDelivered:
		return "Your order was delivered. Enjoy!"
	case enums.OrderStatusCanceled:
		return "Your order was canceled."
	default:
		return "We received your order."
	}
}

func (s *service) loadOrderWithRestaurant(ctx context.Context, orderID uuid.UUID) (*models.Order, *models.Restaurant, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	restaurant, err := s.loadRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	return order, restaurant, nil
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
