package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the repository classifies.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Foreign key constraint names from the schema.
const (
	constraintOrdersUser           = "orders_user_id_fkey"
	constraintOrderProductsOrder   = "order_products_order_id_fkey"
	constraintOrderProductsProduct = "order_products_product_id_fkey"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == codeUniqueViolation
}

// foreignKeyConstraint returns the violated constraint name, or "" when err
// is not a foreign key violation.
func foreignKeyConstraint(err error) string {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != codeForeignKeyViolation {
		return ""
	}
	return pgErr.ConstraintName
}

// wrapPgError annotates err with the condition name of its SQLSTATE so that
// logs read "unique_violation" rather than a bare code.
func wrapPgError(op string, err error) error {
	if pgErr, ok := asPgError(err); ok {
		return fmt.Errorf("%s (%s): %w", op, pq.ErrorCode(pgErr.Code).Name(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
