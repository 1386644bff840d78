package service

import (
	"testing"

	"pizza-paradise/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeCartTotals_NoDiscount(t *testing.T) {
	items := []model.CartItemView{
		{
			Quantity:  2,
			ItemPrice: d("10.00"),
			Toppings: []model.CartToppingView{
				{Quantity: 1, Price: d("2.00")},
			},
		},
	}

	total, discounted := ComputeCartTotals(items, decimal.Zero, decimal.Zero)

	assert.True(t, d("22.00").Equal(total), "total = %s", total)
	assert.True(t, d("22.00").Equal(discounted), "discounted = %s", discounted)
}

func TestComputeCartTotals_PreservesFlatDiscount(t *testing.T) {
	// A 5.00 coupon was applied while the cart stood at 22.00.
	prevTotal := d("22.00")
	prevDiscounted := d("17.00")

	// Another pizza is added afterwards.
	items := []model.CartItemView{
		{Quantity: 2, ItemPrice: d("10.00"), Toppings: []model.CartToppingView{{Quantity: 1, Price: d("2.00")}}},
		{Quantity: 1, ItemPrice: d("8.00")},
	}

	total, discounted := ComputeCartTotals(items, prevTotal, prevDiscounted)

	assert.True(t, d("30.00").Equal(total), "total = %s", total)
	assert.True(t, d("25.00").Equal(discounted), "discount of 5.00 must survive the edit, got %s", discounted)
}

func TestComputeCartTotals_DiscountedFlooredAtZero(t *testing.T) {
	// Discount larger than what remains after removing items.
	prevTotal := d("30.00")
	prevDiscounted := d("10.00")

	items := []model.CartItemView{
		{Quantity: 1, ItemPrice: d("8.00")},
	}

	total, discounted := ComputeCartTotals(items, prevTotal, prevDiscounted)

	assert.True(t, d("8.00").Equal(total))
	assert.True(t, discounted.IsZero(), "discounted must floor at zero, got %s", discounted)
}

func TestComputeCartTotals_EmptyCart(t *testing.T) {
	total, discounted := ComputeCartTotals(nil, d("22.00"), d("17.00"))

	assert.True(t, total.IsZero())
	assert.True(t, discounted.IsZero())
}

func TestComputeCartTotals_ToppingPricesAreExtended(t *testing.T) {
	// Topping price arrives already multiplied by its quantity; it must
	// not be multiplied by the pizza quantity again.
	items := []model.CartItemView{
		{
			Quantity:  3,
			ItemPrice: d("10.00"),
			Toppings: []model.CartToppingView{
				{Quantity: 2, Price: d("4.00")},
			},
		},
	}

	total, _ := ComputeCartTotals(items, decimal.Zero, decimal.Zero)

	assert.True(t, d("34.00").Equal(total), "total = %s", total)
}
