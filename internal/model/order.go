package model

import "time"

// Order belongs to a user. It holds no product references itself; the
// products on an order are OrderProduct rows keyed by the order ID.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	OrderDate time.Time `json:"order_date"`
}

// OrderProduct links one product to one order. The pair is its identity.
type OrderProduct struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
}
