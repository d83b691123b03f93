package repository

import (
	"context"
	"errors"

	"github.com/shopapi/shopapi/internal/model"
)

// Common errors for order-product repository operations.
var (
	ErrOrderProductNotFound = errors.New("order product not found")
	ErrOrderProductExists   = errors.New("order product already exists")
)

// CreateOrderProduct inserts an (order, product) pair. The composite primary
// key decides duplicates: when the pair already exists nothing is written and
// ErrOrderProductExists is returned.
func (r *Repository) CreateOrderProduct(ctx context.Context, op *model.OrderProduct) error {
	query := `
		INSERT INTO order_products (order_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (order_id, product_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query, op.OrderID, op.ProductID)
	if err != nil {
		switch foreignKeyConstraint(err) {
		case constraintOrderProductsOrder:
			return ErrOrderNotFound
		case constraintOrderProductsProduct:
			return ErrProductNotFound
		}
		return wrapPgError("failed to create order product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderProductExists
	}

	return nil
}

// ListOrderProducts returns the lines of one order ordered by product ID.
func (r *Repository) ListOrderProducts(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	query := `
		SELECT order_id, product_id
		FROM order_products
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, wrapPgError("failed to list order products", err)
	}
	defer rows.Close()

	lines := []model.OrderProduct{}
	for rows.Next() {
		var op model.OrderProduct
		if err := rows.Scan(&op.OrderID, &op.ProductID); err != nil {
			return nil, wrapPgError("failed to scan order product", err)
		}
		lines = append(lines, op)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to iterate order products", err)
	}

	return lines, nil
}

// DeleteOrderProduct removes one (order, product) pair.
func (r *Repository) DeleteOrderProduct(ctx context.Context, orderID, productID int64) error {
	query := `
		DELETE FROM order_products
		WHERE order_id = $1 AND product_id = $2
	`

	tag, err := r.db.Exec(ctx, query, orderID, productID)
	if err != nil {
		return wrapPgError("failed to delete order product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderProductNotFound
	}

	return nil
}
