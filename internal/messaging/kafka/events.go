package kafka

import "time"

// EventType определяет тип события жизненного цикла заказа.
type EventType string

const (
	EventTypeOrderCreated     EventType = "order.created"
	EventTypePaymentCompleted EventType = "order.payment_completed"
	EventTypePaymentFailed    EventType = "order.payment_failed"
	EventTypeStatusUpdated    EventType = "order.status_updated"
)

// TopicOrderEvents — топик для событий заказов.
const TopicOrderEvents = "orders.order.events"

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType   EventType      `json:"event_type"`
	OrderNumber string         `json:"order_number"`
	Username    string         `json:"username"`
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewOrderEvent создаёт событие заказа с текущим временем.
func NewOrderEvent(eventType EventType, orderNumber, username, status string, metadata map[string]any) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderNumber: orderNumber,
		Username:    username,
		Status:      status,
		Timestamp:   time.Now().UTC(),
		Metadata:    metadata,
	}
}
