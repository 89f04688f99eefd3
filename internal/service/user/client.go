package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

const fetchUserPath = "/api/auth/user/"

// userResponse повторяет wire-формат user-сервиса.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// Client — HTTP-клиент user-сервиса.
type Client struct {
	client  *http.Client
	baseURL string
	logger  *log.Entry
}

// NewClient создаёт клиент с таймаутом на границе удалённого вызова.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.WithField("component", "user-client")
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch возвращает пользователя по имени.
func (c *Client) Fetch(ctx context.Context, username string) (domain.User, error) {
	endpoint := c.baseURL + fetchUserPath + url.PathEscape(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("build user request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return domain.User{}, fmt.Errorf("call user service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return domain.User{}, fmt.Errorf("user service returned status %d for %q", res.StatusCode, username)
	}

	var payload userResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.User{}, fmt.Errorf("decode user response: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"username": payload.Username,
		"active":   payload.Active,
	}).Debug("user fetched")

	return domain.User{
		ID:       payload.ID,
		Username: payload.Username,
		Email:    payload.Email,
		Role:     payload.Role,
		Active:   payload.Active,
	}, nil
}

var _ domain.UserService = (*Client)(nil)
