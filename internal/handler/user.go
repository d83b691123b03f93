package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopapi/shopapi/internal/handler/dto"
	"github.com/shopapi/shopapi/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), payload)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "user")
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Update handles PUT /users/{id}. Unknown and malformed ids both answer
// 400 "Invalid user id".
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "user")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, payload)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeInvalidID(w, "user")
			return
		}
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeInvalidID(w, "user")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User with id %d has been deleted.", id),
	})
}
