package model

// Product is a catalog entry that can be added to orders.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"product_name"`
	Price float64 `json:"price"`
}
