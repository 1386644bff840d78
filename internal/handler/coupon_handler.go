package handler

import (
	"encoding/json"
	"net/http"

	"pizza-paradise/internal/middleware"
	"pizza-paradise/internal/model"
	"pizza-paradise/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon administration and the per-user active
// coupon listing.
type CouponHandler struct {
	coupons service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(coupons service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// List handles GET /api/coupons requests.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.GetAll(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// Get handles GET /api/coupons/{id} requests.
func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid coupon ID"), h.logger)
		return
	}

	coupon, err := h.coupons.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

// Create handles POST /api/coupons requests.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Coupon code is required"), h.logger)
		return
	}

	coupon, err := h.coupons.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: "Coupon created successfully",
		Data:    coupon,
	})
}

// Update handles PUT /api/coupons/{id} requests.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid coupon ID"), h.logger)
		return
	}

	var req model.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	coupon, err := h.coupons.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Coupon updated successfully",
		Data:    coupon,
	})
}

// Delete handles DELETE /api/coupons/{id} requests.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid coupon ID"), h.logger)
		return
	}

	if err := h.coupons.Delete(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Coupon deleted successfully"})
}

// Active handles GET /api/coupons/active requests.
func (h *CouponHandler) Active(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())

	coupons, err := h.coupons.ActiveForUser(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}
