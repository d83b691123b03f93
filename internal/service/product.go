package service

import (
	"context"
	"fmt"

	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/model"
	"github.com/shopapi/shopapi/internal/repository"
	"github.com/shopapi/shopapi/internal/validation"
)

// ProductService handles product business logic.
type ProductService struct {
	repo    repository.Store
	metrics metrics.Recorder
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.Store, recorder metrics.Recorder) *ProductService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProductService{repo: repo, metrics: recorder}
}

// CreateProduct validates payload and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, payload map[string]any) (*model.Product, error) {
	fields, err := validation.ProductSchema.Validate(payload, validation.ModeCreate)
	if err != nil {
		return nil, err
	}

	product := &model.Product{}
	product.Name, _ = fields.String("product_name")
	product.Price, _ = fields.Float("price")

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, translateOp("create product", err)
	}

	s.metrics.IncEntityCreated(metrics.EntityProduct)
	return product, nil
}

// GetProduct returns one product.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, translateOp("get product", err)
	}
	return product, nil
}

// ListProducts returns every product.
func (s *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies the fields present in payload to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, payload map[string]any) (*model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, translateOp("get product", err)
	}

	fields, err := validation.ProductSchema.Validate(payload, validation.ModePartial)
	if err != nil {
		return nil, err
	}
	if name, ok := fields.String("product_name"); ok {
		product.Name = name
	}
	if price, ok := fields.Float("price"); ok {
		product.Price = price
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, translateOp("update product", err)
	}

	s.metrics.IncEntityUpdated(metrics.EntityProduct)
	return product, nil
}

// DeleteProduct removes a product that is not part of any order.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return translateOp("delete product", err)
	}
	s.metrics.IncEntityDeleted(metrics.EntityProduct)
	return nil
}
