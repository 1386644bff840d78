package handler

import (
	"encoding/json"
	"net/http"

	"pizza-paradise/internal/middleware"
	"pizza-paradise/internal/model"
	"pizza-paradise/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order query and administration requests.
type OrderHandler struct {
	orders service.OrderService
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// ListAll handles GET /api/orders/all requests.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListMine handles GET /api/orders/my-orders requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	orders, err := h.orders.ListForUser(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /api/orders/{id} requests. Customers can only read
// their own orders; admins can read any.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid order ID"), h.logger)
		return
	}

	detail, err := h.orders.GetDetail(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if principal.Role != model.RoleAdmin && detail.UserID != principal.UserID {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// UpdateStatus handles PUT /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid order ID"), h.logger)
		return
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order status updated"})
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid order ID"), h.logger)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted successfully"})
}
