package orders

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-service/internal/metrics"
)

// Service предоставляет операции чтения и административного обновления заказов.
type Service interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	ListByUsername(ctx context.Context, username string) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (domain.Order, error)
}

type service struct {
	orders        domain.OrderRepository
	logger        *log.Entry
	metrics       *metrics.OrderMetrics
	kafkaProducer *kafka.Producer
}

// NewService создаёт сервис заказов.
func NewService(orders domain.OrderRepository, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		orders:  orders,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewServiceWithKafka создаёт сервис, публикующий события смены статуса в Kafka.
func NewServiceWithKafka(orders domain.OrderRepository, kafkaProducer *kafka.Producer, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		orders:        orders,
		logger:        logger,
		metrics:       metrics.NewOrderMetrics(),
		kafkaProducer: kafkaProducer,
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(orders domain.OrderRepository, logger *log.Entry) Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &service{
		orders: orders,
		logger: logger,
	}
}

// GetByOrderNumber возвращает заказ по его бизнес-номеру.
func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order %s: %w", orderNumber, err)
	}
	return order, nil
}

// ListByUsername возвращает все заказы пользователя. Пустой список — не ошибка.
func (s *service) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	orders, err := s.orders.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find orders for user %s: %w", username, err)
	}
	return orders, nil
}

// ListByStatus возвращает все заказы в указанном статусе.
func (s *service) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("find orders with status %s: %w", status, err)
	}
	return orders, nil
}

// ListAll возвращает все заказы.
func (s *service) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus безусловно переводит заказ в указанный статус. Переходы не
// проверяются: это административная операция, ответственность за корректность
// лежит на вызывающей стороне.
func (s *service) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order %s: %w", orderNumber, err)
	}

	previous := order.Status
	order.Status = status
	order, err = s.orders.Save(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order %s status: %w", orderNumber, err)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate()
	}
	s.logger.WithFields(log.Fields{
		"order_number": orderNumber,
		"from":         previous,
		"to":           status,
	}).Info("order status updated")

	if s.kafkaProducer != nil {
		event := kafka.NewOrderEvent(kafka.EventTypeStatusUpdated, order.OrderNumber, order.Username, string(order.Status), map[string]any{
			"previous_status": string(previous),
		})
		if err := s.kafkaProducer.Publish(kafka.TopicOrderEvents, order.OrderNumber, event); err != nil {
			s.logger.WithError(err).WithField("order_number", orderNumber).Warn("failed to publish status update event")
		}
	}

	return order, nil
}

var _ Service = (*service)(nil)
