package payment

import (
	"context"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

// MockService — конфигурируемая заглушка PaymentService для тестов и локального запуска.
type MockService struct {
	Result *domain.PaymentResult
	Err    error

	SubmitCalls int
	LastRequest domain.PaymentRequest
}

// NewMockService возвращает mock с успешной оплатой по умолчанию.
func NewMockService() *MockService {
	return &MockService{
		Result: &domain.PaymentResult{
			PaymentID: "PAY-MOCK",
			Status:    domain.PaymentStatusCompleted,
		},
	}
}

// Submit возвращает заранее настроенный результат и считает вызовы.
func (m *MockService) Submit(_ context.Context, req domain.PaymentRequest) (*domain.PaymentResult, error) {
	m.SubmitCalls++
	m.LastRequest = req
	return m.Result, m.Err
}

var _ domain.PaymentService = (*MockService)(nil)
