package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a user's in-progress selection. At most one exists per user;
// it is created lazily on the first add and deleted when its last item
// is removed.
type Cart struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"userId" db:"user_id"`
	TotalPrice      decimal.Decimal `json:"totalPrice" db:"total_price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice" db:"discounted_price"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// CartItem is a line in a cart, referencing a catalogue pizza.
type CartItem struct {
	ID       int64 `json:"id" db:"id"`
	CartID   int64 `json:"cartId" db:"cart_id"`
	PizzaID  int64 `json:"pizzaId" db:"pizza_id"`
	Quantity int   `json:"quantity" db:"quantity"`
}

// CartTopping is a topping attached to a cart line.
type CartTopping struct {
	ID         int64 `json:"id" db:"id"`
	CartItemID int64 `json:"cartItemId" db:"cart_item_id"`
	ToppingID  int64 `json:"toppingId" db:"topping_id"`
	Quantity   int   `json:"quantity" db:"quantity"`
}

// AddCartItemRequest is the payload for adding a pizza to the cart.
type AddCartItemRequest struct {
	PizzaID  int64                `json:"pizzaId"`
	Quantity int                  `json:"quantity"`
	Toppings []CartToppingRequest `json:"toppings"`
}

// CartToppingRequest is a requested topping on a cart line.
type CartToppingRequest struct {
	ToppingID int64 `json:"toppingId"`
	Quantity  int   `json:"quantity"`
}

// CartToppingView is a topping on a cart line with catalogue details.
// Price is the extended price (unit price times quantity).
type CartToppingView struct {
	ToppingID   int64           `json:"toppingId"`
	ToppingName string          `json:"toppingName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CartItemView is a cart line with catalogue details. ItemPrice is the
// unit price of the pizza, looked up live from the catalogue.
type CartItemView struct {
	CartItemID int64             `json:"cartItemId"`
	PizzaID    int64             `json:"pizzaId"`
	PizzaName  string            `json:"pizzaName"`
	Quantity   int               `json:"quantity"`
	ItemPrice  decimal.Decimal   `json:"itemPrice"`
	Toppings   []CartToppingView `json:"toppings"`
}

// CartView is the full cart as returned to clients.
type CartView struct {
	CartID          int64           `json:"cartId"`
	UserID          int64           `json:"userId"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []CartItemView  `json:"items"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
}

// RemoveItemResult reports the outcome of removing a cart line.
// Cart is nil when the removal deleted the cart itself.
type RemoveItemResult struct {
	CartDeleted bool      `json:"cartDeleted"`
	Cart        *CartView `json:"cart,omitempty"`
}

// RemoveCouponResult reports the cart state after a coupon removal.
type RemoveCouponResult struct {
	CartID            int64           `json:"cartId"`
	RecalculatedTotal decimal.Decimal `json:"recalculatedTotal"`
}
