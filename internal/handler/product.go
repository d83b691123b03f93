package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/service"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	svc    *service.ProductService
	logger *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product_created", "product_id", product.ID)
	writeJSON(w, http.StatusCreated, dto.ToProductResponse(product))
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToProductListResponse(products))
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "product")
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "product")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product_updated", "product_id", product.ID)
	writeJSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "product")
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product_deleted", "product_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Product with id %d has been deleted.", id),
	})
}
