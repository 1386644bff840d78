package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a fulfillment stage. The workflow advances strictly in
// the order given by OrderStatuses.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "Received"
	StatusPreparing      OrderStatus = "Preparing"
	StatusBaking         OrderStatus = "Baking"
	StatusReadyForPickup OrderStatus = "Ready for Pickup"
	StatusCompleted      OrderStatus = "Completed"
)

// OrderStatuses is the fixed fulfillment sequence.
var OrderStatuses = []OrderStatus{
	StatusReceived,
	StatusPreparing,
	StatusBaking,
	StatusReadyForPickup,
	StatusCompleted,
}

// ValidOrderStatus reports whether s is one of the fixed statuses.
func ValidOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is the immutable snapshot of a completed checkout.
type Order struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"userId" db:"user_id"`
	Status     OrderStatus     `json:"status" db:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a frozen copy of a cart line.
type OrderItem struct {
	ID       int64 `json:"id" db:"id"`
	OrderID  int64 `json:"orderId" db:"order_id"`
	PizzaID  int64 `json:"pizzaId" db:"pizza_id"`
	Quantity int   `json:"quantity" db:"quantity"`
}

// OrderTopping is a frozen copy of a cart topping.
type OrderTopping struct {
	ID          int64 `json:"id" db:"id"`
	OrderItemID int64 `json:"orderItemId" db:"order_item_id"`
	ToppingID   int64 `json:"toppingId" db:"topping_id"`
	Quantity    int   `json:"quantity" db:"quantity"`
}

// OrderToppingView is an order topping with catalogue details.
type OrderToppingView struct {
	OrderItemID int64           `json:"orderItemId"`
	ToppingID   int64           `json:"toppingId"`
	ToppingName string          `json:"toppingName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderItemView is an order line with catalogue details. ItemPrice is
// the extended pizza price (unit price times quantity).
type OrderItemView struct {
	ID                int64              `json:"id"`
	PizzaID           int64              `json:"pizzaId"`
	PizzaName         string             `json:"pizzaName"`
	Quantity          int                `json:"quantity"`
	ItemPrice         decimal.Decimal    `json:"itemPrice"`
	Toppings          []OrderToppingView `json:"toppings"`
	TotalToppingPrice decimal.Decimal    `json:"totalToppingPrice"`
}

// OrderDetail is a fully expanded order as returned to clients.
type OrderDetail struct {
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	Status     OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []OrderItemView `json:"items"`
}
