package handler

import (
	"encoding/json"
	"net/http"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user administration requests.
type UserHandler struct {
	users  service.UserService
	orders service.OrderService
	logger zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, orders service.OrderService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		orders: orders,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users requests.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id} requests.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid user ID"), h.logger)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Orders handles GET /api/users/{id}/orders requests.
func (h *UserHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid user ID"), h.logger)
		return
	}

	if _, err := h.users.GetByID(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateRole handles PUT /api/users/{id}/role requests.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid user ID"), h.logger)
		return
	}

	var req struct {
		Role model.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	if err := h.users.UpdateRole(r.Context(), id, req.Role); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User role updated"})
}
