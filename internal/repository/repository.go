package repository

import (
	"context"
	"time"

	"pizza-paradise/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository method can run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// querierOrPool returns q, or the pool when the caller passed nil because
// it is not running inside a transaction.
func querierOrPool(q Querier, pool *pgxpool.Pool) Querier {
	if q == nil {
		return pool
	}
	return q
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new user and populates its generated identifier.
	Create(ctx context.Context, q Querier, user *model.User) error

	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by identifier. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// List retrieves all users.
	List(ctx context.Context) ([]model.User, error)

	// UpdateRole overwrites a user's role.
	UpdateRole(ctx context.Context, id int64, role model.Role) error
}

// PizzaRepository defines the interface for pizza catalogue access.
type PizzaRepository interface {
	GetAll(ctx context.Context) ([]model.Pizza, error)

	// GetByID retrieves a pizza. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, q Querier, id int64) (*model.Pizza, error)

	// GetByName retrieves a pizza by its unique name. Returns (nil, nil) when absent.
	GetByName(ctx context.Context, name string) (*model.Pizza, error)

	Create(ctx context.Context, pizza *model.Pizza) error
	Update(ctx context.Context, pizza *model.Pizza) error
	Delete(ctx context.Context, id int64) error
}

// ToppingRepository defines the interface for topping catalogue access.
type ToppingRepository interface {
	GetAll(ctx context.Context) ([]model.Topping, error)

	// GetByID retrieves a topping. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, q Querier, id int64) (*model.Topping, error)

	// GetByName retrieves a topping by name. Returns (nil, nil) when absent.
	GetByName(ctx context.Context, name string) (*model.Topping, error)

	Create(ctx context.Context, topping *model.Topping) error
	Update(ctx context.Context, topping *model.Topping) error
	Delete(ctx context.Context, id int64) error
}

// CartRepository defines the interface for cart data access operations.
// Mutating methods take a Querier so the service layer can scope a whole
// cart operation to one transaction.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetByUser retrieves the user's cart, locking the row when run in a
	// transaction. Returns (nil, nil) when the user has no cart.
	GetByUser(ctx context.Context, q Querier, userID int64) (*model.Cart, error)

	// GetByID retrieves a cart by identifier. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, q Querier, id int64) (*model.Cart, error)

	// Create inserts an empty cart for the user.
	Create(ctx context.Context, q Querier, userID int64) (*model.Cart, error)

	// UpdatePrices overwrites the cart's total and discounted price.
	UpdatePrices(ctx context.Context, q Querier, cartID int64, total, discounted decimal.Decimal) error

	// Delete removes the cart; items and toppings cascade.
	Delete(ctx context.Context, q Querier, cartID int64) error

	// GetItem retrieves a cart line. Returns (nil, nil) when absent.
	GetItem(ctx context.Context, q Querier, itemID int64) (*model.CartItem, error)

	// FindItem retrieves the cart's line for a pizza. Returns (nil, nil) when absent.
	FindItem(ctx context.Context, q Querier, cartID, pizzaID int64) (*model.CartItem, error)

	// CreateItem inserts a cart line and populates its generated identifier.
	CreateItem(ctx context.Context, q Querier, item *model.CartItem) error

	// UpdateItemQuantity overwrites a line's quantity.
	UpdateItemQuantity(ctx context.Context, q Querier, itemID int64, quantity int) error

	// DeleteItem removes a cart line; its toppings cascade.
	DeleteItem(ctx context.Context, q Querier, itemID int64) error

	// CountItems returns the number of lines in the cart.
	CountItems(ctx context.Context, q Querier, cartID int64) (int, error)

	// GetItems retrieves all lines in the cart.
	GetItems(ctx context.Context, q Querier, cartID int64) ([]model.CartItem, error)

	// FindTopping retrieves the line's row for a topping. Returns (nil, nil) when absent.
	FindTopping(ctx context.Context, q Querier, itemID, toppingID int64) (*model.CartTopping, error)

	// CreateTopping inserts a cart topping and populates its generated identifier.
	CreateTopping(ctx context.Context, q Querier, topping *model.CartTopping) error

	// UpdateToppingQuantity overwrites a cart topping's quantity.
	UpdateToppingQuantity(ctx context.Context, q Querier, toppingID int64, quantity int) error

	// GetItemToppings retrieves all toppings on a cart line.
	GetItemToppings(ctx context.Context, q Querier, itemID int64) ([]model.CartTopping, error)

	// GetItemViews retrieves the cart's lines joined with catalogue details.
	GetItemViews(ctx context.Context, q Querier, cartID int64) ([]model.CartItemView, error)

	// ClearItems deletes every line (and cascaded topping) in the cart,
	// leaving the cart row itself in place.
	ClearItems(ctx context.Context, q Querier, cartID int64) error
}

// CouponRepository defines the interface for coupon and usage-ledger access.
type CouponRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	GetAll(ctx context.Context) ([]model.Coupon, error)

	// GetByID retrieves a coupon. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)

	// GetByCode retrieves a coupon by its unique code. Returns (nil, nil) when absent.
	GetByCode(ctx context.Context, q Querier, code string) (*model.Coupon, error)

	Create(ctx context.Context, q Querier, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error

	// Delete removes the coupon's usage rows first, then the coupon.
	Delete(ctx context.Context, q Querier, id int64) error

	// GetUsageForUpdate retrieves and locks the (user, coupon) ledger row.
	// Returns (nil, nil) when absent.
	GetUsageForUpdate(ctx context.Context, q Querier, userID, couponID int64) (*model.CouponUsage, error)

	// CreateUsage inserts a ledger row and populates its generated identifier.
	CreateUsage(ctx context.Context, q Querier, usage *model.CouponUsage) error

	// SetUsed marks a ledger row consumed at the given time.
	SetUsed(ctx context.Context, q Querier, usageID int64, usedAt time.Time) error

	// ClearUsed resets a ledger row to unused with no timestamp.
	ClearUsed(ctx context.Context, q Querier, usageID int64) error

	// GetActiveUsage retrieves the user's currently consumed ledger row and
	// its coupon. Returns (nil, nil, nil) when the user has none.
	GetActiveUsage(ctx context.Context, q Querier, userID int64) (*model.CouponUsage, *model.Coupon, error)

	// DeleteUsedByUser removes the user's consumed ledger rows.
	DeleteUsedByUser(ctx context.Context, q Querier, userID int64) error

	// BackfillForCoupon inserts an unused ledger row for every existing user.
	BackfillForCoupon(ctx context.Context, q Querier, couponID int64) error

	// BackfillForUser inserts an unused ledger row for every existing coupon.
	BackfillForUser(ctx context.Context, q Querier, userID int64) error

	// ActiveForUser lists the user's unexpired, unused coupons.
	ActiveForUser(ctx context.Context, userID int64, now time.Time) ([]model.ActiveCoupon, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts a new order and populates its generated identifier
	// and timestamps.
	Create(ctx context.Context, q Querier, order *model.Order) error

	// CreateItems inserts order lines and populates their generated identifiers.
	CreateItems(ctx context.Context, q Querier, items []model.OrderItem) error

	// CreateToppings inserts order toppings.
	CreateToppings(ctx context.Context, q Querier, toppings []model.OrderTopping) error

	// GetByID retrieves an order. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetStatus retrieves the order's current status.
	GetStatus(ctx context.Context, id int64) (model.OrderStatus, error)

	// UpdateStatus overwrites the order's status, bumping updated_at.
	// Returns model.ErrOrderNotFound when the order no longer exists.
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error

	// ListByUser retrieves all of a user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// GetDetail retrieves an order with lines and toppings expanded
	// against the catalogue. Returns (nil, nil) when absent.
	GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error)

	// Delete removes the order; items and toppings cascade.
	Delete(ctx context.Context, id int64) error
}
