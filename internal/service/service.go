package service

import (
	"context"
	"io"

	"pizza-paradise/internal/model"

	"github.com/shopspring/decimal"
)

// UserService defines operations for accounts and authentication.
type UserService interface {
	// Register creates a customer account and seeds its coupon ledger.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and issues an access/refresh token pair.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)

	// List retrieves all accounts.
	List(ctx context.Context) ([]model.User, error)

	// GetByID retrieves a single account.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// UpdateRole overwrites an account's role.
	UpdateRole(ctx context.Context, id int64, role model.Role) error
}

// CatalogService defines operations for pizza and topping management.
type CatalogService interface {
	GetPizzas(ctx context.Context) ([]model.Pizza, error)
	GetPizza(ctx context.Context, id int64) (*model.Pizza, error)

	// CreatePizza adds a pizza, storing its image when one is supplied.
	CreatePizza(ctx context.Context, name, description string, price decimal.Decimal, image io.Reader, imageName string) (*model.Pizza, error)

	UpdatePizza(ctx context.Context, id int64, req *model.PizzaUpdateRequest) (*model.Pizza, error)
	DeletePizza(ctx context.Context, id int64) error

	GetToppings(ctx context.Context) ([]model.Topping, error)
	GetTopping(ctx context.Context, id int64) (*model.Topping, error)
	CreateTopping(ctx context.Context, req *model.ToppingRequest) (*model.Topping, error)
	UpdateTopping(ctx context.Context, id int64, req *model.ToppingRequest) (*model.Topping, error)
	DeleteTopping(ctx context.Context, id int64) error
}

// CartService defines operations on a user's cart, coupon application
// included.
type CartService interface {
	// GetCart retrieves the user's cart with lines expanded against the
	// catalogue. Returns model.ErrCartNotFound when the user has none.
	GetCart(ctx context.Context, userID int64) (*model.CartView, error)

	// AddItem adds a pizza with optional toppings to the user's cart,
	// creating the cart on first use and merging quantities into any
	// existing line. Totals are recomputed within the same transaction.
	AddItem(ctx context.Context, userID int64, req *model.AddCartItemRequest) (*model.Cart, error)

	// UpdateItemQuantity sets a line's quantity without touching totals.
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error

	// RemoveItem deletes a line from the user's cart. When the last line
	// goes, the cart itself is deleted; otherwise totals are recomputed.
	RemoveItem(ctx context.Context, userID, itemID int64) (*model.RemoveItemResult, error)

	// ApplyCoupon redeems a coupon code against the user's cart and marks
	// its ledger row consumed.
	ApplyCoupon(ctx context.Context, userID int64, code string) (*model.Cart, error)

	// RemoveCoupon reverses the user's active coupon, adding its discount
	// back and resetting the ledger row.
	RemoveCoupon(ctx context.Context, userID int64) (*model.RemoveCouponResult, error)

	// Checkout converts the user's cart into an order in a single
	// transaction and returns the new order.
	Checkout(ctx context.Context, userID int64) (*model.Order, error)
}

// CouponService defines operations for coupon management.
type CouponService interface {
	GetAll(ctx context.Context) ([]model.Coupon, error)
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)

	// Create adds a coupon and backfills a ledger row for every user.
	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)

	Update(ctx context.Context, id int64, req *model.CouponRequest) (*model.Coupon, error)

	// Delete removes a coupon together with its ledger rows.
	Delete(ctx context.Context, id int64) error

	// ActiveForUser lists the coupons the user can still redeem.
	ActiveForUser(ctx context.Context, userID int64) ([]model.ActiveCoupon, error)
}

// OrderService defines operations for order queries and administration.
type OrderService interface {
	// ListForUser retrieves the user's orders with lines expanded.
	ListForUser(ctx context.Context, userID int64) ([]model.OrderDetail, error)

	// ListAll retrieves every order.
	ListAll(ctx context.Context) ([]model.Order, error)

	// GetDetail retrieves an order with lines and toppings expanded.
	GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error)

	// UpdateStatus overrides an order's status.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error

	// Delete removes an order.
	Delete(ctx context.Context, id int64) error
}
