package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
)

const opTimeout = 5 * time.Second

const orderColumns = `id, order_number, username, product_name, quantity, unit_price, total_amount, status, payment_id, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Save вставляет новый заказ (ID == 0) либо перезаписывает существующую запись по id.
func (r *orderRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	order.UpdatedAt = now

	if order.ID == 0 {
		order.CreatedAt = now
		err := r.db.QueryRowContext(opCtx, `
			INSERT INTO orders (
				order_number, username, product_name, quantity, unit_price,
				total_amount, status, payment_id, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			RETURNING id
		`,
			order.OrderNumber, order.Username, order.ProductName, order.Quantity,
			order.UnitPrice, order.TotalAmount, string(order.Status),
			nullablePaymentID(order.PaymentID), order.CreatedAt, order.UpdatedAt,
		).Scan(&order.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Order{}, fmt.Errorf("order number %s already exists: %w", order.OrderNumber, err)
			}
			return domain.Order{}, fmt.Errorf("insert order: %w", err)
		}
		return order, nil
	}

	res, err := r.db.ExecContext(opCtx, `
		UPDATE orders
		SET username = $1,
		    product_name = $2,
		    quantity = $3,
		    unit_price = $4,
		    total_amount = $5,
		    status = $6,
		    payment_id = $7,
		    updated_at = $8
		WHERE id = $9
	`,
		order.Username, order.ProductName, order.Quantity, order.UnitPrice,
		order.TotalAmount, string(order.Status), nullablePaymentID(order.PaymentID),
		order.UpdatedAt, order.ID,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return order, nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(opCtx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_number = $1
	`, orderNumber)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order by number: %w", err)
	}
	return order, nil
}

func (r *orderRepository) FindByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE username = $1
		ORDER BY created_at DESC, id DESC
	`, username)
}

func (r *orderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
	`, string(status))
}

func (r *orderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// rowScanner покрывает и *sql.Row, и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order     domain.Order
		status    string
		paymentID sql.NullString
	)
	if err := row.Scan(
		&order.ID, &order.OrderNumber, &order.Username, &order.ProductName,
		&order.Quantity, &order.UnitPrice, &order.TotalAmount, &status,
		&paymentID, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	return order, nil
}

func nullablePaymentID(paymentID string) sql.NullString {
	if paymentID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: paymentID, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
