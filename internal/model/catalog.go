package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pizza represents a pizza in the catalogue. Names are unique.
type Pizza struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Image       string          `json:"image" db:"image"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Topping represents a topping in the catalogue.
type Topping struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// PizzaUpdateRequest is the payload for updating a pizza.
type PizzaUpdateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ToppingRequest is the payload for creating or updating a topping.
type ToppingRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
