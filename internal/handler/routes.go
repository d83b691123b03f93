package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes groups the entity handlers mounted on the API router.
type Routes struct {
	Users    *UserHandler
	Products *ProductHandler
	Orders   *OrderHandler
}

// Register mounts the entity endpoints on r.
func (rt Routes) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", rt.Users.List)
		r.Post("/", rt.Users.Create)
		r.Get("/{id}", rt.Users.Get)
		r.Put("/{id}", rt.Users.Update)
		r.Delete("/{id}", rt.Users.Delete)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", rt.Products.List)
		r.Post("/", rt.Products.Create)
		r.Get("/{id}", rt.Products.Get)
		r.Put("/{id}", rt.Products.Update)
		r.Delete("/{id}", rt.Products.Delete)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", rt.Orders.List)
		r.Post("/", rt.Orders.Create)
		r.Get("/user/{user_id}", rt.Orders.ListByUser)
		r.Get("/{order_id}", rt.Orders.Get)
		r.Delete("/{order_id}", rt.Orders.Delete)
		r.Get("/{order_id}/products", rt.Orders.ListProducts)
		r.Post("/{order_id}/add_product/{product_id}", rt.Orders.AddProduct)
		r.Delete("/{order_id}/remove_product", rt.Orders.RemoveProduct)
	})
}
