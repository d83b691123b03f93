package repository

import (
	"context"
	"errors"

	"github.com/shopapi/shopapi/internal/model"
)

// Common errors for product repository operations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInOrders = errors.New("product is referenced by orders")
)

// CreateProduct inserts a new product. Price is read back after NUMERIC
// rounding.
func (r *Repository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (product_name, price)
		VALUES ($1, $2)
		RETURNING id, price
	`

	err := r.db.QueryRow(ctx, query, product.Name, product.Price).Scan(&product.ID, &product.Price)
	if err != nil {
		return wrapPgError("failed to create product", err)
	}

	return nil
}

// GetProductByID retrieves a product by its ID.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, product_name, price
		FROM products
		WHERE id = $1
	`

	var product model.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
	)
	if err != nil {
		return nil, scanErr(err, ErrProductNotFound, "failed to get product by ID")
	}

	return &product, nil
}

// ListProducts returns all products ordered by ID.
func (r *Repository) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, product_name, price
		FROM products
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapPgError("failed to list products", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var product model.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price); err != nil {
			return nil, wrapPgError("failed to scan product", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to iterate products", err)
	}

	return products, nil
}

// UpdateProduct writes name and price for an existing product.
func (r *Repository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET product_name = $2, price = $3
		WHERE id = $1
		RETURNING price
	`

	err := r.db.QueryRow(ctx, query, product.ID, product.Name, product.Price).Scan(&product.Price)
	if err != nil {
		return scanErr(err, ErrProductNotFound, "failed to update product")
	}

	return nil
}

// DeleteProduct removes a product that is not part of any order.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if foreignKeyConstraint(err) == constraintOrderProductsProduct {
			return ErrProductInOrders
		}
		return wrapPgError("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
