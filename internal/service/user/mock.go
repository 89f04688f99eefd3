package user

import (
	"context"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

// MockService — конфигурируемая заглушка UserService для тестов и локального запуска.
type MockService struct {
	User domain.User
	Err  error

	FetchCalls int
}

// NewMockService возвращает mock с активным пользователем по умолчанию.
func NewMockService() *MockService {
	return &MockService{
		User: domain.User{
			ID:       1,
			Username: "demo",
			Email:    "demo@example.com",
			Role:     "USER",
			Active:   true,
		},
	}
}

// Fetch возвращает заранее настроенный результат и считает вызовы.
// Имя пользователя подставляется в ответ, если в заглушке оно не задано.
func (m *MockService) Fetch(_ context.Context, username string) (domain.User, error) {
	m.FetchCalls++
	if m.Err != nil {
		return domain.User{}, m.Err
	}
	user := m.User
	if user.Username == "" {
		user.Username = username
	}
	return user, nil
}

var _ domain.UserService = (*MockService)(nil)
