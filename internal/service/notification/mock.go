package notification

import (
	"context"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

// MockService — конфигурируемая заглушка NotificationService для тестов и локального запуска.
type MockService struct {
	Err error

	SubmitCalls int
	LastMessage domain.Notification
}

// NewMockService возвращает mock, принимающий любые уведомления.
func NewMockService() *MockService {
	return &MockService{}
}

// Submit возвращает настроенную ошибку и запоминает последнее уведомление.
func (m *MockService) Submit(_ context.Context, n domain.Notification) error {
	m.SubmitCalls++
	m.LastMessage = n
	return m.Err
}

var _ domain.NotificationService = (*MockService)(nil)
