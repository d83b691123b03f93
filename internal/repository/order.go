package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopapi/shopapi/internal/model"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// CreateOrder inserts a new order. A zero OrderDate is replaced with the
// current UTC time. A user_id that does not resolve yields ErrUserNotFound.
func (r *Repository) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (order_date, user_id)
		VALUES ($1, $2)
		RETURNING id, order_date
	`

	err := r.db.QueryRow(ctx, query, order.OrderDate, order.UserID).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		if foreignKeyConstraint(err) == constraintOrdersUser {
			return ErrUserNotFound
		}
		return wrapPgError("failed to create order", err)
	}
	order.OrderDate = order.OrderDate.UTC()

	return nil
}

// GetOrderByID retrieves an order by its ID.
func (r *Repository) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, order_date, user_id
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.OrderDate,
		&order.UserID,
	)
	if err != nil {
		return nil, scanErr(err, ErrOrderNotFound, "failed to get order by ID")
	}
	order.OrderDate = order.OrderDate.UTC()

	return &order, nil
}

// ListOrders returns all orders ordered by ID.
func (r *Repository) ListOrders(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT id, order_date, user_id
		FROM orders
		ORDER BY id
	`
	return r.queryOrders(ctx, query)
}

// ListOrdersByUser returns the orders placed by one user, ordered by ID.
func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT id, order_date, user_id
		FROM orders
		WHERE user_id = $1
		ORDER BY id
	`
	return r.queryOrders(ctx, query, userID)
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError("failed to list orders", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var order model.Order
		if err := rows.Scan(&order.ID, &order.OrderDate, &order.UserID); err != nil {
			return nil, wrapPgError("failed to scan order", err)
		}
		order.OrderDate = order.OrderDate.UTC()
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to iterate orders", err)
	}

	return orders, nil
}

// DeleteOrder removes an order together with its order lines.
func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	query := `DELETE FROM orders WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return wrapPgError("failed to delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
