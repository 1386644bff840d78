package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon grants a flat discount amount, identified by a unique code.
type Coupon struct {
	ID             int64           `json:"id" db:"id"`
	Code           string          `json:"code" db:"code"`
	Discount       decimal.Decimal `json:"discount" db:"discount"`
	ExpirationDate time.Time       `json:"expirationDate" db:"expiration_date"`
	UsageLimit     int             `json:"usageLimit" db:"usage_limit"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// CouponUsage records, per (user, coupon), whether the coupon has been
// consumed. A row exists for every pair: new coupons are backfilled for
// all users and new users for all coupons.
type CouponUsage struct {
	ID       int64      `json:"id" db:"id"`
	UserID   int64      `json:"userId" db:"user_id"`
	CouponID int64      `json:"couponId" db:"coupon_id"`
	Used     bool       `json:"used" db:"used"`
	UsedAt   *time.Time `json:"usedAt,omitempty" db:"used_at"`
}

// CouponRequest is the payload for creating or updating a coupon.
type CouponRequest struct {
	Code           string          `json:"code"`
	Discount       decimal.Decimal `json:"discount"`
	ExpirationDate time.Time       `json:"expirationDate"`
	UsageLimit     int             `json:"usageLimit"`
}

// ActiveCoupon is an unexpired, unused coupon available to a user.
type ActiveCoupon struct {
	CouponID       int64           `json:"couponId"`
	Code           string          `json:"code"`
	Discount       decimal.Decimal `json:"discount"`
	ExpirationDate time.Time       `json:"expirationDate"`
}
