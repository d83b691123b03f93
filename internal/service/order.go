package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/model"
	"github.com/shopapi/shopapi/internal/repository"
	"github.com/shopapi/shopapi/internal/validation"
)

// OrderService handles orders and the products attached to them.
type OrderService struct {
	repo    repository.Store
	metrics metrics.Recorder
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repository.Store, recorder metrics.Recorder) *OrderService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &OrderService{repo: repo, metrics: recorder}
}

// CreateOrder validates payload and stores a new order for an existing user.
// Without order_date the order is stamped with the current UTC time.
func (s *OrderService) CreateOrder(ctx context.Context, payload map[string]any) (*model.Order, error) {
	fields, err := validation.OrderSchema.Validate(payload, validation.ModeCreate)
	if err != nil {
		return nil, err
	}

	order := &model.Order{}
	order.UserID, _ = fields.Int("user_id")
	order.OrderDate, _ = fields.Time("order_date")

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, translateOp("create order", err)
	}

	s.metrics.IncEntityCreated(metrics.EntityOrder)
	return order, nil
}

// GetOrder returns one order.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, translateOp("get order", err)
	}
	return order, nil
}

// ListOrders returns every order.
func (s *OrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListOrdersByUser returns the orders of an existing user, possibly none.
func (s *OrderService) ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, translateOp("get user", err)
	}

	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return orders, nil
}

// DeleteOrder removes an order and its product lines.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return translateOp("delete order", err)
	}
	s.metrics.IncEntityDeleted(metrics.EntityOrder)
	return nil
}

// LinkProduct attaches a product to an order. payload carries order_id and
// product_id. The order is checked before the product, and an existing pair
// yields ErrDuplicateAssociation without writing. Checks and insert share
// one transaction; the (order_id, product_id) key settles concurrent links.
func (s *OrderService) LinkProduct(ctx context.Context, payload map[string]any) (*model.OrderProduct, error) {
	fields, err := validation.OrderProductSchema.Validate(payload, validation.ModeCreate)
	if err != nil {
		return nil, err
	}

	line := &model.OrderProduct{}
	line.OrderID, _ = fields.Int("order_id")
	line.ProductID, _ = fields.Int("product_id")

	err = s.repo.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetOrderByID(ctx, line.OrderID); err != nil {
			return err
		}
		if _, err := tx.GetProductByID(ctx, line.ProductID); err != nil {
			return err
		}
		return tx.CreateOrderProduct(ctx, line)
	})
	if err != nil {
		err = translateOp("link product", err)
		s.recordAssociationFailure(err)
		return nil, err
	}

	s.metrics.IncAssociation(metrics.AssociationLinked)
	return line, nil
}

// UnlinkProduct detaches a product from an existing order. payload carries
// product_id.
func (s *OrderService) UnlinkProduct(ctx context.Context, orderID int64, payload map[string]any) (*model.OrderProduct, error) {
	if _, err := s.repo.GetOrderByID(ctx, orderID); err != nil {
		return nil, translateOp("get order", err)
	}

	fields, err := validation.ProductRefSchema.Validate(payload, validation.ModeCreate)
	if err != nil {
		return nil, err
	}
	productID, _ := fields.Int("product_id")

	if err := s.repo.DeleteOrderProduct(ctx, orderID, productID); err != nil {
		err = translateOp("unlink product", err)
		s.recordAssociationFailure(err)
		return nil, err
	}

	s.metrics.IncAssociation(metrics.AssociationUnlinked)
	return &model.OrderProduct{OrderID: orderID, ProductID: productID}, nil
}

// ListOrderProducts returns the product lines of an existing order.
func (s *OrderService) ListOrderProducts(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	if _, err := s.repo.GetOrderByID(ctx, orderID); err != nil {
		return nil, translateOp("get order", err)
	}

	lines, err := s.repo.ListOrderProducts(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order products: %w", err)
	}
	return lines, nil
}

func (s *OrderService) recordAssociationFailure(err error) {
	switch {
	case errors.Is(err, ErrDuplicateAssociation):
		s.metrics.IncAssociation(metrics.AssociationDuplicate)
	case errors.Is(err, ErrAssociationNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrProductNotFound):
		s.metrics.IncAssociation(metrics.AssociationMissing)
	}
}
