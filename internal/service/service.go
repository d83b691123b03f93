// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"

	"github.com/shopapi/shopapi/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrUserHasOrders        = errors.New("user still has orders")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInOrders      = errors.New("product is part of an order")
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateAssociation = errors.New("product is already in this order")
	ErrAssociationNotFound  = errors.New("product not found in this order")
)

// translate maps repository errors onto service errors. Errors it does not
// recognise are returned unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, repository.ErrUserHasOrders):
		return ErrUserHasOrders
	case errors.Is(err, repository.ErrProductNotFound):
		return ErrProductNotFound
	case errors.Is(err, repository.ErrProductInOrders):
		return ErrProductInOrders
	case errors.Is(err, repository.ErrOrderNotFound):
		return ErrOrderNotFound
	case errors.Is(err, repository.ErrOrderProductExists):
		return ErrDuplicateAssociation
	case errors.Is(err, repository.ErrOrderProductNotFound):
		return ErrAssociationNotFound
	default:
		return err
	}
}

// translateOp is translate with operation context on unrecognised errors.
func translateOp(op string, err error) error {
	if t := translate(err); t != err {
		return t
	}
	return fmt.Errorf("%s: %w", op, err)
}
