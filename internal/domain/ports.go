package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// User — представление пользователя, которое возвращает user-сервис.
type User struct {
	ID       int64
	Username string
	Email    string
	Role     string
	Active   bool
}

// UserService описывает взаимодействие с сервисом пользователей.
type UserService interface {
	// Fetch возвращает пользователя по имени или ошибку, если его нет
	// либо сервис недоступен.
	Fetch(ctx context.Context, username string) (User, error)
}

// PaymentRequest — данные для проведения платежа по заказу.
type PaymentRequest struct {
	OrderNumber string
	Username    string
	Amount      decimal.Decimal
}

// PaymentResult — синхронный ответ платёжного сервиса.
type PaymentResult struct {
	PaymentID string
	Status    string
}

// PaymentStatusCompleted — единственный статус, который считается успешной оплатой.
// Сравнение закрытое: любая другая строка трактуется как отказ.
const PaymentStatusCompleted = "COMPLETED"

// PaymentService описывает взаимодействие с платёжным сервисом.
type PaymentService interface {
	// Submit инициирует платёж. Nil-результат без ошибки допустим
	// и трактуется вызывающей стороной как провал оплаты.
	Submit(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// Notification — письмо/сообщение для сервиса уведомлений.
type Notification struct {
	Username string
	Email    string
	Subject  string
	Message  string
	Type     string
}

// NotificationTypeOrderConfirmation — тип уведомления об успешно созданном заказе.
const NotificationTypeOrderConfirmation = "ORDER_CONFIRMATION"

// NotificationService описывает fire-and-forget отправку уведомлений.
type NotificationService interface {
	Submit(ctx context.Context, n Notification) error
}
