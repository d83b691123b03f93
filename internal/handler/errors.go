package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/middleware"
	"github.com/shopapi/shopapi/internal/service"
	"github.com/shopapi/shopapi/internal/validation"
)

// handleServiceError maps service errors to HTTP responses. Unknown errors
// are logged with a fresh error_id that is also returned to the client.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  "Invalid input.",
			Code:   "VALIDATION_FAILED",
			Fields: verr.Fields,
		})
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found.")
	case errors.Is(err, service.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found.")
	case errors.Is(err, service.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found.")
	case errors.Is(err, service.ErrAssociationNotFound):
		writeError(w, http.StatusNotFound, "ASSOCIATION_NOT_FOUND", "Product not found in this order.")
	case errors.Is(err, service.ErrDuplicateAssociation):
		writeError(w, http.StatusBadRequest, "DUPLICATE_ASSOCIATION", "Product is already in this order.")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "EMAIL_EXISTS", "Email already exists.")
	case errors.Is(err, service.ErrUserHasOrders):
		writeError(w, http.StatusBadRequest, "USER_HAS_ORDERS", "User still has orders.")
	case errors.Is(err, service.ErrProductInOrders):
		writeError(w, http.StatusBadRequest, "PRODUCT_IN_ORDERS", "Product is part of an order.")
	default:
		errorID := ulid.Make().String()
		logger.Error("internal_error",
			"error_id", errorID,
			"request_id", middleware.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "An internal error occurred",
			Code:    "INTERNAL_ERROR",
			ErrorID: errorID,
		})
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeDecodeError answers a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
}

func writeInvalidID(w http.ResponseWriter, name string) {
	writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid "+name+" id")
}
