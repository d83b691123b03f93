package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/service"
)

// OrderHandler handles HTTP requests for orders and their product lines.
type OrderHandler struct {
	svc    *service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order_created", "order_id", order.ID, "user_id", order.UserID)
	writeJSON(w, http.StatusCreated, dto.ToOrderResponse(order))
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToOrderListResponse(orders))
}

// Get handles GET /orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "order_id")
	if !ok {
		writeInvalidID(w, "order")
		return
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToOrderResponse(order))
}

// Delete handles DELETE /orders/{order_id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "order_id")
	if !ok {
		writeInvalidID(w, "order")
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("order_deleted", "order_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Order with id %d has been deleted.", id),
	})
}

// ListByUser handles GET /orders/user/{user_id}.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		writeInvalidID(w, "user")
		return
	}

	orders, err := h.svc.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToOrderListResponse(orders))
}

// ListProducts handles GET /orders/{order_id}/products.
func (h *OrderHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		writeInvalidID(w, "order")
		return
	}

	lines, err := h.svc.ListOrderProducts(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToOrderProductListResponse(lines))
}

// AddProduct handles POST /orders/{order_id}/add_product/{product_id}.
// Both ids go through the order-product schema, so malformed ids are
// reported per field.
func (h *OrderHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"order_id":   pathInt(r, "order_id"),
		"product_id": pathInt(r, "product_id"),
	}

	line, err := h.svc.LinkProduct(r.Context(), payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product_linked", "order_id", line.OrderID, "product_id", line.ProductID)
	writeJSON(w, http.StatusCreated, dto.ToOrderProductResponse(line))
}

// RemoveProduct handles DELETE /orders/{order_id}/remove_product with body
// {"product_id": N}.
func (h *OrderHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		writeInvalidID(w, "order")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	line, err := h.svc.UnlinkProduct(r.Context(), orderID, payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("product_unlinked", "order_id", line.OrderID, "product_id", line.ProductID)
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Product with id %d has been removed from order %d.", line.ProductID, line.OrderID),
	})
}

// pathInt returns a decimal path segment as int64. Any other form, such as
// 1.0, 1e0 or 0x1, stays a string and fails the schema's integer check.
func pathInt(r *http.Request, name string) any {
	raw := chi.URLParam(r, name)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id
	}
	return raw
}
