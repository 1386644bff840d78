package model

// Standard error codes for API responses
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeAlreadyUsed     = "COUPON_ALREADY_USED"
	ErrCodeNoCouponApplied = "NO_COUPON_APPLIED"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeStorageFailure  = "STORAGE_FAILURE"
)

// DomainError carries a stable error code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUserNotFound     = NewDomainError(ErrCodeNotFound, "User not found")
	ErrPizzaNotFound    = NewDomainError(ErrCodeNotFound, "Pizza not found")
	ErrToppingNotFound  = NewDomainError(ErrCodeNotFound, "Topping not found")
	ErrCartNotFound     = NewDomainError(ErrCodeNotFound, "No active cart found for this user")
	ErrCartItemNotFound = NewDomainError(ErrCodeNotFound, "Cart item not found")
	ErrCouponNotFound   = NewDomainError(ErrCodeNotFound, "Coupon not found or expired")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")

	ErrCartForbidden = NewDomainError(ErrCodeForbidden, "Cart does not belong to this user")

	ErrEmailRegistered   = NewDomainError(ErrCodeConflict, "Email already registered")
	ErrPizzaNameTaken    = NewDomainError(ErrCodeConflict, "Pizza with this name already exists")
	ErrToppingNameTaken  = NewDomainError(ErrCodeConflict, "Topping already exists")
	ErrCouponCodeTaken   = NewDomainError(ErrCodeConflict, "Coupon code already exists")
	ErrCouponAlreadyUsed = NewDomainError(ErrCodeAlreadyUsed, "Coupon already used by this user")
	ErrNoCouponApplied   = NewDomainError(ErrCodeNoCouponApplied, "No coupon applied to this cart")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cannot checkout an empty cart")
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Invalid order status")

	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorised, "Invalid email or password")
	ErrInvalidToken       = NewDomainError(ErrCodeUnauthorised, "Invalid or expired token")
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
