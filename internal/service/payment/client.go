package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

const processPaymentPath = "/api/payments/process"

// paymentRequest повторяет wire-формат платёжного сервиса.
type paymentRequest struct {
	OrderNumber string          `json:"orderNumber"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
}

// paymentResponse — синхронный ответ платёжного сервиса.
type paymentResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// Client — HTTP-клиент платёжного сервиса.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *log.Entry
}

// NewClient создаёт клиент с таймаутом на границе удалённого вызова.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.WithField("component", "payment-client")
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Submit проводит платёж. Тело ответа "null" возвращается как nil-результат
// без ошибки: решение о провале оплаты принимает оркестратор.
func (c *Client) Submit(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResult, error) {
	body, err := json.Marshal(paymentRequest{
		OrderNumber: req.OrderNumber,
		Username:    req.Username,
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPaymentPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment service returned status %d for order %s", res.StatusCode, req.OrderNumber)
	}

	var payload *paymentResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if payload == nil {
		return nil, nil
	}

	c.logger.WithFields(log.Fields{
		"order_number": req.OrderNumber,
		"status":       payload.Status,
	}).Debug("payment processed")

	return &domain.PaymentResult{
		PaymentID: payload.PaymentID,
		Status:    payload.Status,
	}, nil
}

var _ domain.PaymentService = (*Client)(nil)
