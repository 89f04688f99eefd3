package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего имени пользователя.
	ErrUsernameRequired = errors.New("username is required")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product_name is required")
	// Ошибка при некорректном количестве товара (< 1).
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	// Ошибка отрицательной цены за единицу.
	ErrUnitPriceNegative = errors.New("unit_price must be non-negative")
	// Ошибка несоответствия суммы заказа произведению цены на количество.
	ErrTotalMismatch = errors.New("total_amount does not match unit_price * quantity")
	// ErrUnknownStatus возвращается при попытке использовать статус вне перечисления.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserInactive — пользователь существует, но его аккаунт деактивирован.
	ErrUserInactive = errors.New("user account is not active")
	// ErrPaymentNoResponse — платёжный сервис вернул пустой результат.
	ErrPaymentNoResponse = errors.New("payment service returned no result")
	// ErrPaymentRejected — платёжный сервис вернул статус, отличный от COMPLETED.
	ErrPaymentRejected = errors.New("payment was not completed")
)

// UserValidationError сигнализирует, что заказ отклонён до первой записи в хранилище:
// пользователь не найден, неактивен или вызов user-сервиса завершился ошибкой.
type UserValidationError struct {
	Username string
	Err      error
}

func (e *UserValidationError) Error() string {
	return fmt.Sprintf("user validation failed for %q: %v", e.Username, e.Err)
}

func (e *UserValidationError) Unwrap() error {
	return e.Err
}

// PaymentFailedError сигнализирует о провале оплаты. К моменту возврата ошибки заказ
// уже сохранён в статусе PAYMENT_FAILED. PaymentStatus заполнен только если платёжный
// сервис ответил, но статус отличался от COMPLETED.
type PaymentFailedError struct {
	OrderNumber   string
	PaymentStatus string
	Err           error
}

func (e *PaymentFailedError) Error() string {
	if e.PaymentStatus != "" {
		return fmt.Sprintf("payment failed for order %s: status %q: %v", e.OrderNumber, e.PaymentStatus, e.Err)
	}
	return fmt.Sprintf("payment failed for order %s: %v", e.OrderNumber, e.Err)
}

func (e *PaymentFailedError) Unwrap() error {
	return e.Err
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
