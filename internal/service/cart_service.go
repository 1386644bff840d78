package service

import (
	"context"
	"fmt"
	"time"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	pizzaRepo   repository.PizzaRepository
	toppingRepo repository.ToppingRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	pizzaRepo repository.PizzaRepository,
	toppingRepo repository.ToppingRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		pizzaRepo:   pizzaRepo,
		toppingRepo: toppingRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart with lines expanded against the catalogue.
func (s *cartService) GetCart(ctx context.Context, userID int64) (*model.CartView, error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}

	items, err := s.cartRepo.GetItemViews(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &model.CartView{
		CartID:          cart.ID,
		UserID:          cart.UserID,
		CreatedAt:       cart.CreatedAt,
		Items:           items,
		TotalPrice:      cart.TotalPrice,
		DiscountedPrice: cart.DiscountedPrice,
	}, nil
}

// AddItem adds a pizza with optional toppings to the user's cart, creating
// the cart on first use and merging quantities into any existing line.
func (s *cartService) AddItem(ctx context.Context, userID int64, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req.Quantity <= 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Quantity must be positive")
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	pizza, err := s.pizzaRepo.GetByID(ctx, tx, req.PizzaID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pizza: %w", err)
	}
	if pizza == nil {
		err = model.ErrPizzaNotFound
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		cart, err = s.cartRepo.Create(ctx, tx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		s.logger.Debug().Int64("cart_id", cart.ID).Int64("user_id", userID).Msg("cart created")
	}

	item, err := s.cartRepo.FindItem(ctx, tx, cart.ID, req.PizzaID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item != nil {
		if err = s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, item.Quantity+req.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Quantity += req.Quantity
	} else {
		item = &model.CartItem{
			CartID:   cart.ID,
			PizzaID:  req.PizzaID,
			Quantity: req.Quantity,
		}
		if err = s.cartRepo.CreateItem(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}
	}

	for _, toppingReq := range req.Toppings {
		var topping *model.Topping
		topping, err = s.toppingRepo.GetByID(ctx, tx, toppingReq.ToppingID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up topping: %w", err)
		}
		if topping == nil {
			err = model.ErrToppingNotFound
			return nil, err
		}

		var existing *model.CartTopping
		existing, err = s.cartRepo.FindTopping(ctx, tx, item.ID, toppingReq.ToppingID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up cart topping: %w", err)
		}
		if existing != nil {
			if err = s.cartRepo.UpdateToppingQuantity(ctx, tx, existing.ID, existing.Quantity+toppingReq.Quantity); err != nil {
				return nil, fmt.Errorf("failed to update cart topping: %w", err)
			}
		} else {
			cartTopping := &model.CartTopping{
				CartItemID: item.ID,
				ToppingID:  toppingReq.ToppingID,
				Quantity:   toppingReq.Quantity,
			}
			if err = s.cartRepo.CreateTopping(ctx, tx, cartTopping); err != nil {
				return nil, fmt.Errorf("failed to create cart topping: %w", err)
			}
		}
	}

	if err = s.recomputeTotals(ctx, tx, cart); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Int64("pizza_id", req.PizzaID).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return cart, nil
}

// recomputeTotals re-derives the cart's totals from its current lines,
// preserving any flat discount already granted, and persists them. The
// cart struct is updated in place.
func (s *cartService) recomputeTotals(ctx context.Context, q repository.Querier, cart *model.Cart) error {
	items, err := s.cartRepo.GetItemViews(ctx, q, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to get cart items: %w", err)
	}

	total, discounted := ComputeCartTotals(items, cart.TotalPrice, cart.DiscountedPrice)
	if err := s.cartRepo.UpdatePrices(ctx, q, cart.ID, total, discounted); err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}

	cart.TotalPrice = total
	cart.DiscountedPrice = discounted
	return nil
}

// UpdateItemQuantity sets a line's quantity. Cart totals are left as they
// are; they catch up on the next add or remove.
func (s *cartService) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Quantity must be positive")
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	item, err := s.cartRepo.GetItem(ctx, tx, itemID)
	if err != nil {
		return fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item == nil {
		err = model.ErrCartItemNotFound
		return err
	}

	if err = s.cartRepo.UpdateItemQuantity(ctx, tx, itemID, quantity); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	s.logger.Debug().Int64("cart_item_id", itemID).Int("quantity", quantity).Msg("cart item quantity updated")
	return nil
}

// RemoveItem deletes a line from the user's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) (*model.RemoveItemResult, error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	item, err := s.cartRepo.GetItem(ctx, tx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item == nil {
		err = model.ErrCartItemNotFound
		return nil, err
	}

	cart, err := s.cartRepo.GetByID(ctx, tx, item.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}
	if cart.UserID != userID {
		err = model.ErrCartForbidden
		return nil, err
	}

	if err = s.cartRepo.DeleteItem(ctx, tx, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete cart item: %w", err)
	}

	remaining, err := s.cartRepo.CountItems(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cart items: %w", err)
	}

	result := &model.RemoveItemResult{}
	if remaining == 0 {
		if err = s.cartRepo.Delete(ctx, tx, cart.ID); err != nil {
			return nil, fmt.Errorf("failed to delete cart: %w", err)
		}
		result.CartDeleted = true
	} else {
		if err = s.recomputeTotals(ctx, tx, cart); err != nil {
			return nil, err
		}
		var items []model.CartItemView
		items, err = s.cartRepo.GetItemViews(ctx, tx, cart.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart items: %w", err)
		}
		result.Cart = &model.CartView{
			CartID:          cart.ID,
			UserID:          cart.UserID,
			CreatedAt:       cart.CreatedAt,
			Items:           items,
			TotalPrice:      cart.TotalPrice,
			DiscountedPrice: cart.DiscountedPrice,
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Int64("cart_item_id", itemID).
		Bool("cart_deleted", result.CartDeleted).
		Msg("cart item removed")

	return result, nil
}

// ApplyCoupon redeems a coupon code against the user's cart. The discount
// is subtracted from the discounted total as-is; the ledger row for the
// (user, coupon) pair is locked and marked consumed in the same
// transaction, so concurrent redemptions of one coupon cannot both win.
func (s *cartService) ApplyCoupon(ctx context.Context, userID int64, code string) (*model.Cart, error) {
	tx, err := s.couponRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to apply coupon: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}

	coupon, err := s.couponRepo.GetByCode(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if coupon == nil || coupon.ExpirationDate.Before(truncateToDay(time.Now())) {
		err = model.ErrCouponNotFound
		return nil, err
	}

	usage, err := s.couponRepo.GetUsageForUpdate(ctx, tx, userID, coupon.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon usage: %w", err)
	}
	if usage != nil && usage.Used {
		err = model.ErrCouponAlreadyUsed
		return nil, err
	}

	now := time.Now()
	if usage == nil {
		usage = &model.CouponUsage{
			UserID:   userID,
			CouponID: coupon.ID,
			Used:     true,
			UsedAt:   &now,
		}
		if err = s.couponRepo.CreateUsage(ctx, tx, usage); err != nil {
			return nil, fmt.Errorf("failed to create coupon usage: %w", err)
		}
	} else {
		if err = s.couponRepo.SetUsed(ctx, tx, usage.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark coupon used: %w", err)
		}
	}

	// The discount always comes off the gross total, so applying a second
	// coupon replaces the previous discount rather than stacking on it.
	discounted := cart.TotalPrice.Sub(coupon.Discount)
	if err = s.cartRepo.UpdatePrices(ctx, tx, cart.ID, cart.TotalPrice, discounted); err != nil {
		return nil, fmt.Errorf("failed to update cart totals: %w", err)
	}
	cart.DiscountedPrice = discounted

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to apply coupon: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Str("coupon_code", coupon.Code).
		Str("discount", coupon.Discount.String()).
		Msg("coupon applied")

	return cart, nil
}

// RemoveCoupon reverses the user's active coupon, adding its discount back
// to the discounted total and resetting the ledger row.
func (s *cartService) RemoveCoupon(ctx context.Context, userID int64) (*model.RemoveCouponResult, error) {
	tx, err := s.couponRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to remove coupon: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}

	usage, coupon, err := s.couponRepo.GetActiveUsage(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon usage: %w", err)
	}
	if usage == nil {
		err = model.ErrNoCouponApplied
		return nil, err
	}

	restored := cart.DiscountedPrice.Add(coupon.Discount)
	if err = s.cartRepo.UpdatePrices(ctx, tx, cart.ID, cart.TotalPrice, restored); err != nil {
		return nil, fmt.Errorf("failed to update cart totals: %w", err)
	}

	if err = s.couponRepo.ClearUsed(ctx, tx, usage.ID); err != nil {
		return nil, fmt.Errorf("failed to reset coupon usage: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to remove coupon: %w", err)
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Str("coupon_code", coupon.Code).
		Msg("coupon removed")

	return &model.RemoveCouponResult{
		CartID:            cart.ID,
		RecalculatedTotal: restored,
	}, nil
}

// Checkout converts the user's cart into an order in a single transaction.
// The final price is the discounted total, or the gross total when no
// discount applies. Cart lines are cleared but the cart row stays, and the
// user's consumed coupon ledger rows are deleted so the redemption is
// permanent.
func (s *cartService) Checkout(ctx context.Context, userID int64) (*model.Order, error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}

	cartItems, err := s.cartRepo.GetItems(ctx, tx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	if len(cartItems) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	finalPrice := cart.DiscountedPrice
	if finalPrice.IsZero() {
		finalPrice = cart.TotalPrice
	}

	order := &model.Order{
		UserID:     userID,
		Status:     model.StatusReceived,
		TotalPrice: finalPrice,
	}
	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(cartItems))
	for i, ci := range cartItems {
		orderItems[i] = model.OrderItem{
			OrderID:  order.ID,
			PizzaID:  ci.PizzaID,
			Quantity: ci.Quantity,
		}
	}
	if err = s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	var orderToppings []model.OrderTopping
	for i, ci := range cartItems {
		var toppings []model.CartTopping
		toppings, err = s.cartRepo.GetItemToppings(ctx, tx, ci.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart toppings: %w", err)
		}
		for _, ct := range toppings {
			orderToppings = append(orderToppings, model.OrderTopping{
				OrderItemID: orderItems[i].ID,
				ToppingID:   ct.ToppingID,
				Quantity:    ct.Quantity,
			})
		}
	}
	if err = s.orderRepo.CreateToppings(ctx, tx, orderToppings); err != nil {
		return nil, fmt.Errorf("failed to create order toppings: %w", err)
	}

	if err = s.couponRepo.DeleteUsedByUser(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to settle coupon usage: %w", err)
	}

	if err = s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err = s.cartRepo.UpdatePrices(ctx, tx, cart.ID, decimal.Zero, decimal.Zero); err != nil {
		return nil, fmt.Errorf("failed to reset cart totals: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", userID).
		Str("total_price", order.TotalPrice.String()).
		Int("item_count", len(orderItems)).
		Msg("checkout completed")

	return order, nil
}

// truncateToDay drops the time-of-day component, matching the date
// granularity coupons expire at.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
