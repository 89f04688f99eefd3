package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, оплата ещё не запускалась.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaymentProcessing — запрос в платёжный сервис готовится или уже в полёте.
	OrderStatusPaymentProcessing OrderStatus = "PAYMENT_PROCESSING"
	// OrderStatusPaymentCompleted — оплата подтверждена, заказ успешно создан.
	OrderStatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	// OrderStatusPaymentFailed — оплата не прошла; терминальный статус саги создания.
	OrderStatusPaymentFailed OrderStatus = "PAYMENT_FAILED"
	// OrderStatusConfirmed — заказ подтверждён оператором (вне саги создания).
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusShipped — заказ отгружен.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён административно.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// knownStatuses — закрытое множество статусов; всё остальное отклоняется на границе.
var knownStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:           {},
	OrderStatusPaymentProcessing: {},
	OrderStatusPaymentCompleted:  {},
	OrderStatusPaymentFailed:     {},
	OrderStatusConfirmed:         {},
	OrderStatusShipped:           {},
	OrderStatusDelivered:         {},
	OrderStatusCancelled:         {},
}

// ParseOrderStatus валидирует строковое представление статуса.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownStatuses[status]; !ok {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// Order агрегирует состояние заказа.
type Order struct {
	ID          int64
	OrderNumber string
	Username    string
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	Status      OrderStatus
	// PaymentID заполняется только после успешной оплаты.
	PaymentID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const orderNumberPrefix = "ORD-"

// NewOrderNumber генерирует человекочитаемый номер заказа вида ORD-XXXXXXXX,
// где XXXXXXXX — первые 8 символов случайного UUID в верхнем регистре.
func NewOrderNumber() string {
	return orderNumberPrefix + strings.ToUpper(uuid.NewString()[:8])
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Username == "" {
		errs = append(errs, ErrUsernameRequired)
	}
	if o.ProductName == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if o.Quantity < 1 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if o.UnitPrice.IsNegative() {
		errs = append(errs, ErrUnitPriceNegative)
	}

	// Сумма заказа считается один раз при создании и больше не пересчитывается,
	// поэтому сверяем сохранённое значение с unit price × quantity.
	if !o.TotalAmount.Equal(o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
