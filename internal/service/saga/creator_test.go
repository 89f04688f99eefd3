package saga

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/service/notification"
	"github.com/vladislavdragonenkov/order-service/internal/service/payment"
	"github.com/vladislavdragonenkov/order-service/internal/service/user"
	"github.com/vladislavdragonenkov/order-service/internal/storage/memory"
)

// countingRepository считает записи, чтобы проверять количество durable writes.
type countingRepository struct {
	domain.OrderRepository

	mu        sync.Mutex
	saveCalls int
}

func (r *countingRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	r.saveCalls++
	r.mu.Unlock()
	return r.OrderRepository.Save(ctx, order)
}

func (r *countingRepository) saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveCalls
}

type fixture struct {
	repo          *countingRepository
	users         *user.MockService
	payments      *payment.MockService
	notifications *notification.MockService
	creator       Creator
}

func newFixture() *fixture {
	repo := &countingRepository{OrderRepository: memory.NewOrderRepository()}
	users := user.NewMockService()
	users.User = domain.User{ID: 1, Username: "alice", Email: "alice@example.com", Active: true}
	payments := payment.NewMockService()
	payments.Result = &domain.PaymentResult{PaymentID: "PAY-123", Status: domain.PaymentStatusCompleted}
	notifications := notification.NewMockService()

	logger := log.New()
	logger.SetLevel(log.ErrorLevel)

	return &fixture{
		repo:          repo,
		users:         users,
		payments:      payments,
		notifications: notifications,
		creator:       NewCreatorWithoutMetrics(repo, users, payments, notifications, logger.WithField("test", "saga")),
	}
}

func laptopInput() CreateOrderInput {
	return CreateOrderInput{
		Username:    "alice",
		ProductName: "Laptop",
		Quantity:    1,
		UnitPrice:   decimal.RequireFromString("999.99"),
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture()

	order, err := f.creator.CreateOrder(context.Background(), laptopInput())
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.Status != domain.OrderStatusPaymentCompleted {
		t.Fatalf("expected PAYMENT_COMPLETED, got %s", order.Status)
	}
	if order.PaymentID != "PAY-123" {
		t.Fatalf("expected payment id PAY-123, got %q", order.PaymentID)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("999.99")) {
		t.Fatalf("expected exact total 999.99, got %s", order.TotalAmount)
	}
	if order.ID == 0 || order.CreatedAt.IsZero() {
		t.Fatalf("expected assigned identity, got %+v", order)
	}

	if f.users.FetchCalls != 1 {
		t.Fatalf("expected exactly one user validation call, got %d", f.users.FetchCalls)
	}
	if f.payments.SubmitCalls != 1 {
		t.Fatalf("expected exactly one payment call, got %d", f.payments.SubmitCalls)
	}
	if f.notifications.SubmitCalls != 1 {
		t.Fatalf("expected exactly one notification call, got %d", f.notifications.SubmitCalls)
	}
	if f.repo.saves() != 3 {
		t.Fatalf("expected 3 durable writes, got %d", f.repo.saves())
	}

	stored, err := f.repo.FindByOrderNumber(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.Status != domain.OrderStatusPaymentCompleted {
		t.Fatalf("persisted status mismatch: %s", stored.Status)
	}
}

func TestCreateOrder_PaymentRequestCarriesTotal(t *testing.T) {
	f := newFixture()

	input := laptopInput()
	input.Quantity = 3
	input.UnitPrice = decimal.RequireFromString("10.10")

	order, err := f.creator.CreateOrder(context.Background(), input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	want := decimal.RequireFromString("30.30")
	if !order.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.TotalAmount)
	}
	if !f.payments.LastRequest.Amount.Equal(want) {
		t.Fatalf("payment request carried %s, expected %s", f.payments.LastRequest.Amount, want)
	}
	if f.payments.LastRequest.OrderNumber != order.OrderNumber {
		t.Fatalf("payment request carried wrong order number %q", f.payments.LastRequest.OrderNumber)
	}
}

func TestCreateOrder_InactiveUser(t *testing.T) {
	f := newFixture()
	f.users.User.Active = false
	f.users.User.Username = "bob"

	input := laptopInput()
	input.Username = "bob"

	_, err := f.creator.CreateOrder(context.Background(), input)

	var validationErr *domain.UserValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected UserValidationError, got %v", err)
	}
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive in chain, got %v", err)
	}

	// Сага не дошла до persistence: хранилище осталось пустым.
	all, repoErr := f.repo.FindAll(context.Background())
	if repoErr != nil {
		t.Fatalf("find all failed: %v", repoErr)
	}
	if len(all) != 0 {
		t.Fatalf("expected no persisted orders, got %d", len(all))
	}
	if f.payments.SubmitCalls != 0 {
		t.Fatal("payment must not be called when user validation fails")
	}
	if f.notifications.SubmitCalls != 0 {
		t.Fatal("notification must not be called when user validation fails")
	}
}

func TestCreateOrder_UserServiceError(t *testing.T) {
	f := newFixture()
	f.users.Err = errors.New("user service unavailable")

	_, err := f.creator.CreateOrder(context.Background(), laptopInput())

	var validationErr *domain.UserValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected UserValidationError, got %v", err)
	}

	all, repoErr := f.repo.FindAll(context.Background())
	if repoErr != nil {
		t.Fatalf("find all failed: %v", repoErr)
	}
	if len(all) != 0 {
		t.Fatalf("expected no persisted orders, got %d", len(all))
	}
}

func TestCreateOrder_PaymentDeclined(t *testing.T) {
	f := newFixture()
	f.payments.Result = &domain.PaymentResult{PaymentID: "PAY-999", Status: "DECLINED"}

	_, err := f.creator.CreateOrder(context.Background(), laptopInput())

	var paymentErr *domain.PaymentFailedError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentFailedError, got %v", err)
	}
	if paymentErr.PaymentStatus != "DECLINED" {
		t.Fatalf("expected returned status DECLINED in failure detail, got %q", paymentErr.PaymentStatus)
	}

	stored, lookupErr := f.repo.FindByOrderNumber(context.Background(), paymentErr.OrderNumber)
	if lookupErr != nil {
		t.Fatalf("lookup failed: %v", lookupErr)
	}
	if stored.Status != domain.OrderStatusPaymentFailed {
		t.Fatalf("expected persisted PAYMENT_FAILED, got %s", stored.Status)
	}
	if stored.PaymentID != "" {
		t.Fatalf("payment reference must stay empty on failure, got %q", stored.PaymentID)
	}
	if f.notifications.SubmitCalls != 0 {
		t.Fatal("notification must not be sent on payment failure")
	}
	if f.repo.saves() != 3 {
		t.Fatalf("expected 3 durable writes on failed payment, got %d", f.repo.saves())
	}
}

func TestCreateOrder_PaymentCallError(t *testing.T) {
	f := newFixture()
	f.payments.Result = nil
	f.payments.Err = errors.New("dial tcp: connection refused")

	_, err := f.creator.CreateOrder(context.Background(), laptopInput())

	var paymentErr *domain.PaymentFailedError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentFailedError, got %v", err)
	}
	if paymentErr.PaymentStatus != "" {
		t.Fatalf("no returned status expected for transport failure, got %q", paymentErr.PaymentStatus)
	}

	stored, lookupErr := f.repo.FindByOrderNumber(context.Background(), paymentErr.OrderNumber)
	if lookupErr != nil {
		t.Fatalf("lookup failed: %v", lookupErr)
	}
	if stored.Status != domain.OrderStatusPaymentFailed {
		t.Fatalf("expected persisted PAYMENT_FAILED, got %s", stored.Status)
	}
}

func TestCreateOrder_PaymentNilResult(t *testing.T) {
	f := newFixture()
	f.payments.Result = nil

	_, err := f.creator.CreateOrder(context.Background(), laptopInput())

	var paymentErr *domain.PaymentFailedError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentFailedError, got %v", err)
	}
	if !errors.Is(err, domain.ErrPaymentNoResponse) {
		t.Fatalf("expected ErrPaymentNoResponse in chain, got %v", err)
	}

	stored, lookupErr := f.repo.FindByOrderNumber(context.Background(), paymentErr.OrderNumber)
	if lookupErr != nil {
		t.Fatalf("lookup failed: %v", lookupErr)
	}
	if stored.Status != domain.OrderStatusPaymentFailed {
		t.Fatalf("expected persisted PAYMENT_FAILED, got %s", stored.Status)
	}
}

func TestCreateOrder_NotificationFailureSwallowed(t *testing.T) {
	f := newFixture()
	f.notifications.Err = errors.New("smtp relay down")

	order, err := f.creator.CreateOrder(context.Background(), laptopInput())
	if err != nil {
		t.Fatalf("notification failure must not fail the saga: %v", err)
	}
	if order.Status != domain.OrderStatusPaymentCompleted {
		t.Fatalf("expected PAYMENT_COMPLETED, got %s", order.Status)
	}
	if f.notifications.SubmitCalls != 1 {
		t.Fatalf("expected one notification attempt, got %d", f.notifications.SubmitCalls)
	}

	stored, lookupErr := f.repo.FindByOrderNumber(context.Background(), order.OrderNumber)
	if lookupErr != nil {
		t.Fatalf("lookup failed: %v", lookupErr)
	}
	if stored.Status != domain.OrderStatusPaymentCompleted {
		t.Fatalf("persisted status must stay PAYMENT_COMPLETED, got %s", stored.Status)
	}
}

func TestCreateOrder_NotificationContent(t *testing.T) {
	f := newFixture()

	order, err := f.creator.CreateOrder(context.Background(), laptopInput())
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	sent := f.notifications.LastMessage
	if sent.Subject != "Order Created Successfully" {
		t.Fatalf("unexpected subject %q", sent.Subject)
	}
	if sent.Type != domain.NotificationTypeOrderConfirmation {
		t.Fatalf("unexpected type %q", sent.Type)
	}
	if sent.Email != "alice@example.com" {
		t.Fatalf("notification must target the validated user's email, got %q", sent.Email)
	}
	want := "Order " + order.OrderNumber + " for Laptop has been created. Total: $999.99"
	if sent.Message != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", sent.Message, want)
	}
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name  string
		mut   func(*CreateOrderInput)
		wantE error
	}{
		{"empty username", func(in *CreateOrderInput) { in.Username = "" }, domain.ErrUsernameRequired},
		{"empty product", func(in *CreateOrderInput) { in.ProductName = "" }, domain.ErrProductNameRequired},
		{"zero quantity", func(in *CreateOrderInput) { in.Quantity = 0 }, domain.ErrQuantityInvalid},
		{"negative price", func(in *CreateOrderInput) { in.UnitPrice = decimal.RequireFromString("-0.01") }, domain.ErrUnitPriceNegative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := laptopInput()
			tc.mut(&input)

			_, err := f.creator.CreateOrder(context.Background(), input)
			if !errors.Is(err, tc.wantE) {
				t.Fatalf("expected %v, got %v", tc.wantE, err)
			}
			if f.users.FetchCalls != 0 {
				t.Fatal("invalid input must fail before any remote call")
			}
		})
	}
}
