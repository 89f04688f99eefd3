package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Save сохраняет заказ. При первом сохранении (ID == 0) присваивает
	// идентификатор и момент создания; при повторном — перезаписывает запись
	// на месте, сохраняя идентификатор и created_at. Возвращает актуальное
	// состояние заказа.
	Save(ctx context.Context, order Order) (Order, error)
	// FindByOrderNumber возвращает заказ по номеру или ErrOrderNotFound.
	FindByOrderNumber(ctx context.Context, orderNumber string) (Order, error)
	// FindByUsername возвращает заказы пользователя; пустой срез — не ошибка.
	FindByUsername(ctx context.Context, username string) ([]Order, error)
	// FindByStatus возвращает заказы в указанном статусе.
	FindByStatus(ctx context.Context, status OrderStatus) ([]Order, error)
	// FindAll возвращает все заказы.
	FindAll(ctx context.Context) ([]Order, error)
}
