package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

const sendNotificationPath = "/api/notifications/send"

// notificationRequest повторяет wire-формат сервиса уведомлений.
type notificationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// Client — HTTP-клиент сервиса уведомлений.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *log.Entry
}

// NewClient создаёт клиент с таймаутом на границе удалённого вызова.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.WithField("component", "notification-client")
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Submit отправляет уведомление. Ответное тело не интересует: важен только статус.
func (c *Client) Submit(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(notificationRequest{
		Username: n.Username,
		Email:    n.Email,
		Subject:  n.Subject,
		Message:  n.Message,
		Type:     n.Type,
	})
	if err != nil {
		return fmt.Errorf("marshal notification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendNotificationPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call notification service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("notification service returned status %d", res.StatusCode)
	}
	return nil
}

var _ domain.NotificationService = (*Client)(nil)
