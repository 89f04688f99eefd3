package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

// CreateOrderRequest — тело запроса POST /api/orders.
type CreateOrderRequest struct {
	Username    string          `json:"username"`
	ProductName string          `json:"productName"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// UpdateStatusRequest — тело запроса PUT /api/orders/{orderNumber}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse — представление заказа в ответах API.
type OrderResponse struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Username    string    `json:"username"`
	ProductName string    `json:"productName"`
	Quantity    int32     `json:"quantity"`
	UnitPrice   string    `json:"unitPrice"`
	TotalAmount string    `json:"totalAmount"`
	Status      string    `json:"status"`
	PaymentID   string    `json:"paymentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ErrorResponse — единый формат ошибок API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Username:    order.Username,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		UnitPrice:   order.UnitPrice.StringFixed(2),
		TotalAmount: order.TotalAmount.StringFixed(2),
		Status:      string(order.Status),
		PaymentID:   order.PaymentID,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	return responses
}
