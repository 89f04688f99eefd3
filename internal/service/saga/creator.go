package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-service/internal/metrics"
)

// CreateOrderInput — входные данные саги создания заказа.
type CreateOrderInput struct {
	Username    string
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
}

func (in CreateOrderInput) validate() error {
	var errs []error
	if in.Username == "" {
		errs = append(errs, domain.ErrUsernameRequired)
	}
	if in.ProductName == "" {
		errs = append(errs, domain.ErrProductNameRequired)
	}
	if in.Quantity < 1 {
		errs = append(errs, domain.ErrQuantityInvalid)
	}
	if in.UnitPrice.IsNegative() {
		errs = append(errs, domain.ErrUnitPriceNegative)
	}
	return errors.Join(errs...)
}

// Creator описывает интерфейс саги создания заказа.
type Creator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error)
}

// creator реализует последовательность шагов: validate user → persist PENDING →
// persist PAYMENT_PROCESSING → pay → persist outcome → notify (best effort).
type creator struct {
	orders        domain.OrderRepository
	users         domain.UserService
	payments      domain.PaymentService
	notifications domain.NotificationService
	logger        *log.Entry
	metrics       *metrics.OrderMetrics
	kafkaProducer *kafka.Producer // опциональный producer для событий жизненного цикла
}

// NewCreator создаёт рабочий экземпляр саги.
func NewCreator(
	orders domain.OrderRepository,
	users domain.UserService,
	payments domain.PaymentService,
	notifications domain.NotificationService,
	logger *log.Entry,
) Creator {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &creator{
		orders:        orders,
		users:         users,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
		metrics:       metrics.NewOrderMetrics(),
	}
}

// NewCreatorWithKafka создаёт сагу, публикующую события жизненного цикла в Kafka.
func NewCreatorWithKafka(
	orders domain.OrderRepository,
	users domain.UserService,
	payments domain.PaymentService,
	notifications domain.NotificationService,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) Creator {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &creator{
		orders:        orders,
		users:         users,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
		metrics:       metrics.NewOrderMetrics(),
		kafkaProducer: kafkaProducer,
	}
}

// NewCreatorWithoutMetrics создаёт сагу без метрик (для тестов).
func NewCreatorWithoutMetrics(
	orders domain.OrderRepository,
	users domain.UserService,
	payments domain.PaymentService,
	notifications domain.NotificationService,
	logger *log.Entry,
) Creator {
	if logger == nil {
		logger = log.New().WithField("component", "saga")
	}
	return &creator{
		orders:        orders,
		users:         users,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateOrder выполняет сагу создания заказа. До первой записи в хранилище дело
// доходит только после успешной валидации пользователя; любой провал оплаты
// фиксируется на сохранённой записи статусом PAYMENT_FAILED, а не теряется.
func (c *creator) CreateOrder(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordCreateStarted()
	}
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordCreateFinished()
			c.metrics.RecordCreateDuration(time.Since(start))
		}
	}()

	if err := input.validate(); err != nil {
		return domain.Order{}, err
	}

	// Шаг 1: валидация пользователя. Заказ ещё не существует.
	user, err := c.users.Fetch(ctx, input.Username)
	if err != nil {
		c.logger.WithError(err).WithField("username", input.Username).Warn("user validation failed")
		if c.metrics != nil {
			c.metrics.RecordCreateFailed(metrics.FailReasonUserValidation)
		}
		return domain.Order{}, &domain.UserValidationError{Username: input.Username, Err: err}
	}
	if !user.Active {
		c.logger.WithField("username", input.Username).Warn("user account is not active")
		if c.metrics != nil {
			c.metrics.RecordCreateFailed(metrics.FailReasonUserValidation)
		}
		return domain.Order{}, &domain.UserValidationError{Username: input.Username, Err: domain.ErrUserInactive}
	}

	// Шаг 2: сумма считается один раз, точной десятичной арифметикой.
	total := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

	// Шаг 3: первая запись — точка невозврата.
	order := domain.Order{
		OrderNumber: domain.NewOrderNumber(),
		Username:    input.Username,
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
	}
	order, err = c.orders.Save(ctx, order)
	if err != nil {
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Error("failed to persist pending order")
		return domain.Order{}, fmt.Errorf("persist pending order: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"username":     order.Username,
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("order created, starting payment")
	c.publishOrderEvent(kafka.EventTypeOrderCreated, &order, nil)

	// Шаг 4: фиксируем, что оплата стартовала, до похода в платёжный сервис.
	order.Status = domain.OrderStatusPaymentProcessing
	order, err = c.orders.Save(ctx, order)
	if err != nil {
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Error("failed to persist payment_processing status")
		return domain.Order{}, fmt.Errorf("persist payment_processing: %w", err)
	}

	// Шаг 5: платёж. Три формы провала — ошибка вызова, пустой результат,
	// статус, отличный от COMPLETED, — все завершаются в PAYMENT_FAILED.
	result, err := c.payments.Submit(ctx, domain.PaymentRequest{
		OrderNumber: order.OrderNumber,
		Username:    order.Username,
		Amount:      order.TotalAmount,
	})
	if err != nil {
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Warn("payment call failed")
		return domain.Order{}, c.failPayment(ctx, &order, "", err)
	}
	if result == nil {
		c.logger.WithField("order_number", order.OrderNumber).Warn("payment service returned no result")
		return domain.Order{}, c.failPayment(ctx, &order, "", domain.ErrPaymentNoResponse)
	}
	if result.Status != domain.PaymentStatusCompleted {
		c.logger.WithFields(log.Fields{
			"order_number": order.OrderNumber,
			"status":       result.Status,
		}).Warn("payment was not completed")
		return domain.Order{}, c.failPayment(ctx, &order, result.Status, domain.ErrPaymentRejected)
	}

	// Шаг 6: единственный успешный терминальный путь.
	order.Status = domain.OrderStatusPaymentCompleted
	order.PaymentID = result.PaymentID
	order, err = c.orders.Save(ctx, order)
	if err != nil {
		// Оплата прошла, но запись не сохранилась: это не провал оплаты, заказ
		// остаётся в PAYMENT_PROCESSING, а ошибка поднимается наверх как есть.
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Error("failed to persist payment_completed status")
		return domain.Order{}, fmt.Errorf("persist payment_completed: %w", err)
	}

	if c.metrics != nil {
		c.metrics.RecordOrderCreated()
	}
	c.logger.WithFields(log.Fields{
		"order_number": order.OrderNumber,
		"payment_id":   order.PaymentID,
	}).Info("order creation completed")
	c.publishOrderEvent(kafka.EventTypePaymentCompleted, &order, map[string]any{
		"payment_id": order.PaymentID,
	})

	// Шаг 7: best-effort уведомление; провал не влияет на результат саги.
	c.notify(ctx, user, &order)

	return order, nil
}

// failPayment переводит заказ в PAYMENT_FAILED, сохраняет его и возвращает
// типизированную ошибку с исходной причиной. Возвращённый платёжным сервисом
// статус (если был) сохраняется в деталях ошибки.
func (c *creator) failPayment(ctx context.Context, order *domain.Order, returnedStatus string, cause error) error {
	order.Status = domain.OrderStatusPaymentFailed
	saved, err := c.orders.Save(ctx, *order)
	if err != nil {
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Error("failed to persist payment_failed status")
	} else {
		*order = saved
	}

	if c.metrics != nil {
		c.metrics.RecordCreateFailed(metrics.FailReasonPayment)
	}
	c.publishOrderEvent(kafka.EventTypePaymentFailed, order, map[string]any{
		"reason": cause.Error(),
	})

	return &domain.PaymentFailedError{
		OrderNumber:   order.OrderNumber,
		PaymentStatus: returnedStatus,
		Err:           cause,
	}
}

// notify собирает и отправляет уведомление о созданном заказе. Ошибки только логируются.
func (c *creator) notify(ctx context.Context, user domain.User, order *domain.Order) {
	n := domain.Notification{
		Username: user.Username,
		Email:    user.Email,
		Subject:  "Order Created Successfully",
		Message: fmt.Sprintf("Order %s for %s has been created. Total: $%s",
			order.OrderNumber, order.ProductName, order.TotalAmount.StringFixed(2)),
		Type: domain.NotificationTypeOrderConfirmation,
	}
	if err := c.notifications.Submit(ctx, n); err != nil {
		c.logger.WithError(err).WithField("order_number", order.OrderNumber).Warn("failed to send notification")
		if c.metrics != nil {
			c.metrics.RecordNotificationFailure()
		}
	}
}

// publishOrderEvent публикует событие заказа в Kafka (если producer настроен).
func (c *creator) publishOrderEvent(eventType kafka.EventType, order *domain.Order, metadata map[string]any) {
	if c.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, order.OrderNumber, order.Username, string(order.Status), metadata)
	if err := c.kafkaProducer.Publish(kafka.TopicOrderEvents, order.OrderNumber, event); err != nil {
		// Kafka опциональна: ошибку логируем, сагу не прерываем.
		c.logger.WithError(err).WithFields(log.Fields{
			"event_type":   eventType,
			"order_number": order.OrderNumber,
		}).Warn("failed to publish order event to kafka")
	}
}

var _ Creator = (*creator)(nil)
