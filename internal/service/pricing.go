package service

import (
	"pizza-paradise/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeCartTotals derives a cart's gross and discounted totals from its
// lines. The flat discount already granted to the cart, the gap between the
// previous gross and discounted totals, is preserved across edits so that
// adding or removing items never changes the rupee value of an applied
// coupon. The discounted total is floored at zero.
func ComputeCartTotals(items []model.CartItemView, prevTotal, prevDiscounted decimal.Decimal) (total, discounted decimal.Decimal) {
	total = decimal.Zero
	for _, item := range items {
		line := item.ItemPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		for _, topping := range item.Toppings {
			line = line.Add(topping.Price)
		}
		total = total.Add(line)
	}

	discountAmount := prevTotal.Sub(prevDiscounted)
	discounted = total.Sub(discountAmount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	return total, discounted
}
