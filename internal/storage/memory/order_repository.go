package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	orders map[string]domain.Order // ключ — номер заказа
	nextID int64
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		orders: make(map[string]domain.Order),
	}
}

// Save присваивает идентификатор и created_at при первом сохранении, дальше
// перезаписывает запись по номеру заказа, не создавая дубликатов.
func (r *orderRepositoryInMemory) Save(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if order.ID == 0 {
		r.nextID++
		order.ID = r.nextID
		order.CreatedAt = now
	} else if existing, ok := r.orders[order.OrderNumber]; ok {
		// Идентификатор и момент создания неизменяемы после первой записи.
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
	}
	order.UpdatedAt = now

	r.orders[order.OrderNumber] = order
	return order, nil
}

// FindByOrderNumber возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) FindByOrderNumber(_ context.Context, orderNumber string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// FindByUsername возвращает заказы пользователя; отсутствие заказов — пустой срез.
func (r *orderRepositoryInMemory) FindByUsername(_ context.Context, username string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.Username == username {
			result = append(result, order)
		}
	}

	sortOrders(result)
	return result, nil
}

// FindByStatus возвращает заказы в указанном статусе.
func (r *orderRepositoryInMemory) FindByStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}

	sortOrders(result)
	return result, nil
}

// FindAll возвращает все заказы.
func (r *orderRepositoryInMemory) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, order)
	}

	sortOrders(result)
	return result, nil
}

// sortOrders фиксирует детерминированный порядок выборок: свежие заказы первыми.
func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
