package repository

import (
	"context"

	"github.com/shopapi/shopapi/internal/model"
)

// Store is the persistence contract used by the service layer. *Repository
// implements it against PostgreSQL.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	CreateOrderProduct(ctx context.Context, op *model.OrderProduct) error
	ListOrderProducts(ctx context.Context, orderID int64) ([]model.OrderProduct, error)
	DeleteOrderProduct(ctx context.Context, orderID, productID int64) error

	InTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

var _ Store = (*Repository)(nil)
