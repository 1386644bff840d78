package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"pizza-paradise/internal/middleware"
	"pizza-paradise/internal/model"
	"pizza-paradise/internal/service"

	"github.com/rs/zerolog"
)

// OrderNotifier delivers the post-checkout confirmation email.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, orderID int64) error
}

// FulfillmentStarter kicks off the background status progression.
type FulfillmentStarter interface {
	Start(orderID int64)
}

// CartHandler handles cart and checkout requests.
type CartHandler struct {
	carts    service.CartService
	notifier OrderNotifier
	runner   FulfillmentStarter
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, notifier OrderNotifier, runner FulfillmentStarter, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		notifier: notifier,
		runner:   runner,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// GetCart handles GET /api/cart requests.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	cart, err := h.carts.GetCart(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	var req model.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), principal.UserID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: "Item added to cart",
		Data:    cart,
	})
}

// UpdateItem handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid cart item ID"), h.logger)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	if err := h.carts.UpdateItemQuantity(r.Context(), itemID, req.Quantity); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cart item updated"})
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	itemID, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid cart item ID"), h.logger)
		return
	}

	result, err := h.carts.RemoveItem(r.Context(), principal.UserID, itemID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	message := "Item removed from cart"
	if result.CartDeleted {
		message = "Item removed and cart deleted"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: message, Data: result})
}

// ApplyCoupon handles POST /api/cart/coupons requests.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Coupon code is required"), h.logger)
		return
	}

	cart, err := h.carts.ApplyCoupon(r.Context(), principal.UserID, req.Code)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Coupon applied successfully",
		Data:    cart,
	})
}

// RemoveCoupon handles POST /api/cart/coupons/remove requests.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	result, err := h.carts.RemoveCoupon(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Coupon removed successfully",
		Data:    result,
	})
}

// Checkout handles POST /api/cart/checkout requests. The confirmation
// email is sent before the status workflow starts; a failed send is
// reported back but never undoes the committed order.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	order, err := h.carts.Checkout(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	message := "Order placed successfully"
	if err := h.notifier.SendOrderConfirmation(r.Context(), order.ID); err != nil {
		h.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("order confirmation email failed")
		message = "Order placed successfully, but the confirmation email could not be sent"
	}

	h.runner.Start(order.ID)

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: message,
		Data:    order,
	})
}
