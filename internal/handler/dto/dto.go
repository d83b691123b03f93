// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopapi/shopapi/internal/model"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	OrderDate time.Time `json:"order_date"`
}

// OrderProductResponse represents one product line of an order.
type OrderProductResponse struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
}

// MessageResponse confirms an operation that returns no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Fields  map[string][]string `json:"fields,omitempty"`
	ErrorID string              `json:"error_id,omitempty"`
}

// ToUserResponse converts a model.User to UserResponse.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// ToUserListResponse converts users, keeping an empty list non-nil.
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}

// ToProductResponse converts a model.Product to ProductResponse.
func ToProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{ID: p.ID, ProductName: p.Name, Price: p.Price}
}

// ToProductListResponse converts products, keeping an empty list non-nil.
func ToProductListResponse(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

// ToOrderResponse converts a model.Order to OrderResponse.
func ToOrderResponse(o *model.Order) OrderResponse {
	return OrderResponse{ID: o.ID, UserID: o.UserID, OrderDate: o.OrderDate.UTC()}
}

// ToOrderListResponse converts orders, keeping an empty list non-nil.
func ToOrderListResponse(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// ToOrderProductResponse converts a model.OrderProduct to OrderProductResponse.
func ToOrderProductResponse(op *model.OrderProduct) OrderProductResponse {
	return OrderProductResponse{OrderID: op.OrderID, ProductID: op.ProductID}
}

// ToOrderProductListResponse converts order lines, keeping an empty list non-nil.
func ToOrderProductListResponse(lines []model.OrderProduct) []OrderProductResponse {
	out := make([]OrderProductResponse, 0, len(lines))
	for i := range lines {
		out = append(out, ToOrderProductResponse(&lines[i]))
	}
	return out
}
