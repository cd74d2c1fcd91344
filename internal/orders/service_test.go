package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dineline-app/dineline-backend/pkg/db/models"
	"github.com/dineline-app/dineline-backend/pkg/enums"
	pkgerrors "github.com/dineline-app/dineline-backend/pkg/errors"
)

type orderFixture struct {
	repo          *stubOrderRepo
	restaurants   *stubRestaurantFinder
	menu          *stubMenuReader
	notifications *stubNotifier
	authz         *stubOrderAuthorizer
	tx            *stubTxRunner
	svc           Service
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		repo: &stubOrderRepo{},
		restaurants: &stubRestaurantFinder{restaurant: &models.Restaurant{
			ID:          uuid.New(),
			OwnerID:     uuid.New(),
			Name:        "Testaurant",
			DeliveryFee: decimal.RequireFromString("2.50"),
			IsActive:    true,
		}},
		menu:          &stubMenuReader{},
		notifications: &stubNotifier{},
		authz:         &stubOrderAuthorizer{},
		tx:            &stubTxRunner{},
	}
	svc, err := NewService(f.repo, f.restaurants, f.menu, f.notifications, f.authz, f.tx, decimal.RequireFromString("0.08"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *orderFixture) seedOrder(status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		RestaurantID:  f.restaurants.restaurant.ID,
		AddressID:     uuid.New(),
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		Subtotal:      decimal.RequireFromString("29.25"),
		DeliveryFee:   decimal.RequireFromString("2.50"),
		Tax:           decimal.RequireFromString("2.34"),
		Total:         decimal.RequireFromString("34.09"),
	}
	f.repo.order = order
	return order
}

func TestNewServiceRequiresDeps(t *testing.T) {
	repo := &stubOrderRepo{}
	restaurants := &stubRestaurantFinder{}
	menu := &stubMenuReader{}
	notifications := &stubNotifier{}
	authz := &stubOrderAuthorizer{}
	tx := &stubTxRunner{}
	rate := decimal.RequireFromString("0.08")

	if _, err := NewService(nil, restaurants, menu, notifications, authz, tx, rate); err == nil {
		t.Fatal("expected error without repo")
	}
	if _, err := NewService(repo, nil, menu, notifications, authz, tx, rate); err == nil {
		t.Fatal("expected error without restaurants repo")
	}
	if _, err := NewService(repo, restaurants, nil, notifications, authz, tx, rate); err == nil {
		t.Fatal("expected error without menu repo")
	}
	if _, err := NewService(repo, restaurants, menu, nil, authz, tx, rate); err == nil {
		t.Fatal("expected error without notifier")
	}
	if _, err := NewService(repo, restaurants, menu, notifications, nil, tx, rate); err == nil {
		t.Fatal("expected error without authorizer")
	}
	if _, err := NewService(repo, restaurants, menu, notifications, authz, nil, rate); err == nil {
		t.Fatal("expected error without tx runner")
	}
	if _, err := NewService(repo, restaurants, menu, notifications, authz, tx, decimal.RequireFromString("-0.01")); err == nil {
		t.Fatal("expected error for negative tax rate")
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	actorID := uuid.New()
	pizza := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.restaurants.restaurant.ID,
		Name:         "Margherita",
		Price:        decimal.RequireFromString("12.50"),
		IsAvailable:  true,
	}
	bread := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.restaurants.restaurant.ID,
		Name:         "Garlic Bread",
		Price:        decimal.RequireFromString("4.25"),
		IsAvailable:  true,
	}
	f.menu.items = []models.MenuItem{pizza, bread}
	f.repo.address = &models.Address{ID: uuid.New(), UserID: actorID}

	notes := "ring the bell"
	dto, err := f.svc.Create(context.Background(), actorID, CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
		AddressID:    f.repo.address.ID,
		Notes:        &notes,
		Items: []CreateOrderItemInput{
			{MenuItemID: pizza.ID, Quantity: 2},
			{MenuItemID: bread.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if dto.Status != enums.OrderStatusCreated {
		t.Fatalf("expected created status, got %s", dto.Status)
	}
	if dto.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", dto.PaymentStatus)
	}
	if dto.Subtotal != 29.25 {
		t.Fatalf("expected subtotal 29.25, got %v", dto.Subtotal)
	}
	if dto.DeliveryFee != 2.5 {
		t.Fatalf("expected delivery fee 2.5, got %v", dto.DeliveryFee)
	}
	if dto.Tax != 2.34 {
		t.Fatalf("expected tax 2.34, got %v", dto.Tax)
	}
	if dto.Total != 34.09 {
		t.Fatalf("expected total 34.09, got %v", dto.Total)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(dto.Items))
	}
	if dto.Items[0].Name != "Margherita" || dto.Items[0].UnitPrice != 12.5 || dto.Items[0].LineTotal != 25 {
		t.Fatalf("unexpected first line %+v", dto.Items[0])
	}

	created := f.repo.created
	if created == nil {
		t.Fatal("expected order persisted")
	}
	if !created.Subtotal.Equal(decimal.RequireFromString("29.25")) {
		t.Fatalf("expected model subtotal 29.25, got %s", created.Subtotal)
	}
	if created.Notes == nil || *created.Notes != notes {
		t.Fatal("expected notes to pass through")
	}
	if created.Items[0].MenuItemID == nil || *created.Items[0].MenuItemID != pizza.ID {
		t.Fatal("expected menu item reference on snapshot line")
	}
}

func TestCreateOrderRequiresItems(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateOrderMissingRestaurant(t *testing.T) {
	f := newOrderFixture(t)
	f.restaurants.err = gorm.ErrRecordNotFound

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		RestaurantID: uuid.New(),
		Items:        []CreateOrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestCreateOrderInactiveRestaurant(t *testing.T) {
	f := newOrderFixture(t)
	f.restaurants.restaurant.IsActive = false

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
		Items:        []CreateOrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}
}

func TestCreateOrderForeignAddress(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.address = &models.Address{ID: uuid.New(), UserID: uuid.New()}

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
		AddressID:    f.repo.address.ID,
		Items:        []CreateOrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code for foreign address, got %v", err)
	}
	if f.repo.created != nil {
		t.Fatal("expected no order row")
	}
}

func TestCreateOrderAggregatesLineErrors(t *testing.T) {
	f := newOrderFixture(t)
	actorID := uuid.New()
	soldOut := models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: f.restaurants.restaurant.ID,
		Name:         "Daily Special",
		Price:        decimal.RequireFromString("9.00"),
		IsAvailable:  false,
	}
	f.menu.items = []models.MenuItem{soldOut}
	f.repo.address = &models.Address{ID: uuid.New(), UserID: actorID}

	_, err := f.svc.Create(context.Background(), actorID, CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
		AddressID:    f.repo.address.ID,
		Items: []CreateOrderItemInput{
			{MenuItemID: uuid.New(), Quantity: 1},
			{MenuItemID: soldOut.ID, Quantity: 0},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if problems := multierr.Errors(typed.Unwrap()); len(problems) != 3 {
		t.Fatalf("expected 3 aggregated line problems, got %d: %v", len(problems), problems)
	}
	if f.repo.created != nil {
		t.Fatal("expected no order row")
	}
}

func TestCreateOrderForbidden(t *testing.T) {
	f := newOrderFixture(t)
	f.authz.placeErr = pkgerrors.New(pkgerrors.CodeForbidden, "nope")

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateOrderInput{
		RestaurantID: f.restaurants.restaurant.ID,
		Items:        []CreateOrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", err)
	}
}

func TestAdvanceStatusAppliesTransition(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusCreated)
	actorID := uuid.New()
	eta := time.Now().UTC().Add(40 * time.Minute)

	dto, err := f.svc.AdvanceStatus(context.Background(), actorID, order.ID, AdvanceStatusInput{
		Status:                enums.OrderStatusConfirmed,
		EstimatedDeliveryTime: &eta,
	})
	if err != nil {
		t.Fatalf("advance status: %v", err)
	}
	if dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", dto.Status)
	}
	if f.repo.updates["status"] != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status update %v", f.repo.updates["status"])
	}
	if _, ok := f.repo.updates["estimated_delivery_time"]; !ok {
		t.Fatal("expected delivery estimate in updates")
	}
	if len(f.repo.changes) != 1 {
		t.Fatalf("expected one audit row, got %d", len(f.repo.changes))
	}
	change := f.repo.changes[0]
	if change.FromStatus != enums.OrderStatusCreated || change.ToStatus != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected audit row %+v", change)
	}
	if change.ChangedBy != actorID {
		t.Fatal("expected audit row to record the actor")
	}
	if len(f.notifications.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifications.created))
	}
	notification := f.notifications.created[0]
	if notification.Kind != enums.NotificationKindOrderStatus {
		t.Fatalf("unexpected notification kind %s", notification.Kind)
	}
	if notification.UserID != order.UserID {
		t.Fatal("expected notification addressed to the customer")
	}
	if notification.OrderID == nil || *notification.OrderID != order.ID {
		t.Fatal("expected notification to reference the order")
	}
}

func TestAdvanceStatusRejectsSkippedStep(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusCreated)

	_, err := f.svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, AdvanceStatusInput{
		Status: enums.OrderStatusPreparing,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if f.repo.updateCalls != 0 {
		t.Fatal("expected no status write")
	}
	if len(f.notifications.created) != 0 {
		t.Fatal("expected no notification")
	}
}

func TestAdvanceStatusSameStatusIsNoOp(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusConfirmed)

	dto, err := f.svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, AdvanceStatusInput{
		Status: enums.OrderStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("same-status update should succeed, got %v", err)
	}
	if dto.Status != enums.OrderStatusConfirmed {
		t.Fatalf("unexpected status %s", dto.Status)
	}
	if f.repo.updateCalls != 0 || len(f.repo.changes) != 0 || len(f.notifications.created) != 0 {
		t.Fatal("expected no writes for a no-op transition")
	}
}

func TestAdvanceStatusTerminalStates(t *testing.T) {
	f := newOrderFixture(t)

	for _, status := range []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCanceled} {
		order := f.seedOrder(status)
		_, err := f.svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, AdvanceStatusInput{
			Status: enums.OrderStatusConfirmed,
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("%s: expected state conflict, got %v", status, err)
		}
	}
}

func TestAdvanceStatusDeliveredStampsTime(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	if _, err := f.svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, AdvanceStatusInput{
		Status: enums.OrderStatusDelivered,
	}); err != nil {
		t.Fatalf("advance status: %v", err)
	}
	if _, ok := f.repo.updates["delivered_at"]; !ok {
		t.Fatal("expected delivered_at in updates")
	}
}

func TestAdvanceStatusForbidden(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusCreated)
	f.authz.advanceErr = pkgerrors.New(pkgerrors.CodeForbidden, "nope")

	_, err := f.svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, AdvanceStatusInput{
		Status: enums.OrderStatusConfirmed,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if f.tx.calls != 0 {
		t.Fatal("expected no transaction after authz denial")
	}
}

func TestCancelFromPreparing(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusPreparing)

	dto, err := f.svc.Cancel(context.Background(), order.UserID, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if dto.Status != enums.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", dto.Status)
	}
	if _, ok := f.repo.updates["canceled_at"]; !ok {
		t.Fatal("expected canceled_at in updates")
	}
	if len(f.notifications.created) != 1 || f.notifications.created[0].Body != "Your order was canceled." {
		t.Fatalf("unexpected notifications %+v", f.notifications.created)
	}
}

func TestCancelOutForDeliveryRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	_, err := f.svc.Cancel(context.Background(), order.UserID, order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelTwiceIsNoOp(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusCanceled)

	dto, err := f.svc.Cancel(context.Background(), order.UserID, order.ID)
	if err != nil {
		t.Fatalf("second cancel should succeed, got %v", err)
	}
	if dto.Status != enums.OrderStatusCanceled {
		t.Fatalf("unexpected status %s", dto.Status)
	}
	if f.repo.updateCalls != 0 {
		t.Fatal("expected no writes")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.findErr = gorm.ErrRecordNotFound

	_, err := f.svc.GetByID(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTrackDerivesProgress(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusOutForDelivery)

	tracking, err := f.svc.Track(context.Background(), order.UserID, order.ID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tracking.Step != 4 {
		t.Fatalf("expected step 4, got %d", tracking.Step)
	}
	if tracking.Percent != 80 {
		t.Fatalf("expected percent 80, got %d", tracking.Percent)
	}
	if tracking.ETAText != "10-20 minutes" {
		t.Fatalf("expected fallback eta, got %q", tracking.ETAText)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder(enums.OrderStatusConfirmed)

	dto, err := f.svc.SetPaymentStatus(context.Background(), uuid.New(), order.ID, enums.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("set payment status: %v", err)
	}
	if dto.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", dto.PaymentStatus)
	}
	if f.repo.paymentCalls != 1 || f.repo.lastPayment != enums.PaymentStatusPaid {
		t.Fatal("expected one payment status write")
	}

	if _, err := f.svc.SetPaymentStatus(context.Background(), uuid.New(), order.ID, enums.PaymentStatusPaid); err != nil {
		t.Fatalf("same-status payment update should succeed, got %v", err)
	}
	if f.repo.paymentCalls != 1 {
		t.Fatal("expected no second write for same payment status")
	}

	_, err = f.svc.SetPaymentStatus(context.Background(), uuid.New(), order.ID, enums.PaymentStatus("cash"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for unknown payment status, got %v", err)
	}
}

func TestListForRestaurantRequiresManagement(t *testing.T) {
	f := newOrderFixture(t)
	f.authz.manageErr = pkgerrors.New(pkgerrors.CodeForbidden, "nope")

	_, err := f.svc.ListForRestaurant(context.Background(), uuid.New(), f.restaurants.restaurant.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type stubOrderRepo struct {
	order        *models.Order
	findErr      error
	address      *models.Address
	addressErr   error
	byUser       []models.Order
	byRestaurant []models.Order
	created      *models.Order
	createErr    error
	updates      map[string]any
	updateCalls  int
	changes      []*models.OrderStatusChange
	paymentCalls int
	lastPayment  enums.PaymentStatus
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrderRepo) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Order, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubOrderRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.byUser, nil
}

func (s *stubOrderRepo) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	return s.byRestaurant, nil
}

func (s *stubOrderRepo) UpdateWithTx(tx *gorm.DB, orderID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	s.updateCalls++
	if status, ok := updates["status"].(enums.OrderStatus); ok && s.order != nil {
		s.order.Status = status
	}
	return nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	s.paymentCalls++
	s.lastPayment = status
	if s.order != nil {
		s.order.PaymentStatus = status
	}
	return nil
}

func (s *stubOrderRepo) AppendStatusChangeWithTx(tx *gorm.DB, change *models.OrderStatusChange) error {
	s.changes = append(s.changes, change)
	return nil
}

func (s *stubOrderRepo) FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	if s.addressErr != nil {
		return nil, s.addressErr
	}
	if s.address == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.address, nil
}

type stubRestaurantFinder struct {
	restaurant *models.Restaurant
	err        error
}

func (s *stubRestaurantFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.restaurant, nil
}

type stubMenuReader struct {
	items []models.MenuItem
	err   error
}

func (s *stubMenuReader) FindItemsByIDs(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error) {
	return s.items, s.err
}

type stubNotifier struct {
	created []*models.Notification
	err     error
}

func (s *stubNotifier) CreateWithTx(tx *gorm.DB, notification *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, notification)
	return nil
}

type stubOrderAuthorizer struct {
	placeErr   error
	viewErr    error
	cancelErr  error
	advanceErr error
	manageErr  error
}

func (s *stubOrderAuthorizer) CanPlaceOrder(ctx context.Context, userID uuid.UUID) error {
	return s.placeErr
}

func (s *stubOrderAuthorizer) CanViewOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error {
	return s.viewErr
}

func (s *stubOrderAuthorizer) CanCancelOrder(ctx context.Context, userID, customerID, restaurantOwnerID uuid.UUID) error {
	return s.cancelErr
}

func (s *stubOrderAuthorizer) CanAdvanceOrder(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error {
	return s.advanceErr
}

func (s *stubOrderAuthorizer) CanManageRestaurant(ctx context.Context, userID, restaurantOwnerID uuid.UUID) error {
	return s.manageErr
}

type stubTxRunner struct {
	calls int
	err   error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	s.calls++
	return fn(nil)
}
