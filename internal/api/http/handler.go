package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/service/orders"
	"github.com/vladislavdragonenkov/order-service/internal/service/saga"
)

// Handler обрабатывает HTTP-запросы к заказам.
type Handler struct {
	creator saga.Creator
	orders  orders.Service
	logger  *log.Entry
}

// NewHandler создаёт обработчик API заказов.
func NewHandler(creator saga.Creator, ordersService orders.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	return &Handler{
		creator: creator,
		orders:  ordersService,
		logger:  logger,
	}
}

// CreateOrder обрабатывает POST /api/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	order, err := h.creator.CreateOrder(r.Context(), saga.CreateOrderInput{
		Username:    req.Username,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// writeCreateError сортирует ошибки саги по HTTP-статусам. Ошибки валидации входа
// — вина клиента; провал проверки пользователя и провал оплаты — ошибки нижележащих
// сервисов, заказ при провале оплаты уже сохранён в PAYMENT_FAILED.
func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrUnitPriceNegative):
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var userErr *domain.UserValidationError
	if errors.As(err, &userErr) {
		h.writeError(w, http.StatusInternalServerError, "user_validation_failed", userErr.Error())
		return
	}

	var paymentErr *domain.PaymentFailedError
	if errors.As(err, &paymentErr) {
		h.writeError(w, http.StatusInternalServerError, "payment_failed", paymentErr.Error())
		return
	}

	h.logger.WithError(err).Error("order creation failed")
	h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to create order")
}

// GetOrder обрабатывает GET /api/orders/{orderNumber}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.orders.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if domain.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "not_found", "order "+orderNumber+" not found")
			return
		}
		h.logger.WithError(err).WithField("order_number", orderNumber).Error("failed to fetch order")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to fetch order")
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListUserOrders обрабатывает GET /api/orders/user/{username}.
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	list, err := h.orders.ListByUsername(r.Context(), username)
	if err != nil {
		h.logger.WithError(err).WithField("username", username).Error("failed to list user orders")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponses(list))
}

// ListOrders обрабатывает GET /api/orders с опциональным фильтром ?status=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	rawStatus := r.URL.Query().Get("status")

	var (
		list []domain.Order
		err  error
	)
	if rawStatus == "" {
		list, err = h.orders.ListAll(r.Context())
	} else {
		var status domain.OrderStatus
		status, err = domain.ParseOrderStatus(rawStatus)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_status", "unknown order status: "+rawStatus)
			return
		}
		list, err = h.orders.ListByStatus(r.Context(), status)
	}
	if err != nil {
		h.logger.WithError(err).Error("failed to list orders")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponses(list))
}

// UpdateOrderStatus обрабатывает PUT /api/orders/{orderNumber}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_status", "unknown order status: "+req.Status)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderNumber, status)
	if err != nil {
		if domain.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "not_found", "order "+orderNumber+" not found")
			return
		}
		h.logger.WithError(err).WithField("order_number", orderNumber).Error("failed to update order status")
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		return
	}

	h.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, kind, message string) {
	h.writeJSON(w, code, ErrorResponse{Error: kind, Message: message})
}
