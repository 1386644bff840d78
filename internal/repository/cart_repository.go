package repository

import (
	"context"
	"errors"
	"fmt"

	"pizza-paradise/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *cartRepository) GetByUser(ctx context.Context, q Querier, userID int64) (*model.Cart, error) {
	q = querierOrPool(q, r.pool)
	// FOR UPDATE serialises concurrent mutations of the same cart when
	// the querier is a transaction; outside one the lock is per-statement.
	query := `
		SELECT id, user_id, total_price, discounted_price, created_at
		FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`

	var cart model.Cart
	err := q.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.DiscountedPrice,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &cart, nil
}

func (r *cartRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Cart, error) {
	q = querierOrPool(q, r.pool)
	query := `
		SELECT id, user_id, total_price, discounted_price, created_at
		FROM carts
		WHERE id = $1
		FOR UPDATE
	`

	var cart model.Cart
	err := q.QueryRow(ctx, query, id).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.DiscountedPrice,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("cart_id", id).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, q Querier, userID int64) (*model.Cart, error) {
	q = querierOrPool(q, r.pool)
	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		RETURNING id, user_id, total_price, discounted_price, created_at
	`

	var cart model.Cart
	err := q.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.TotalPrice,
		&cart.DiscountedPrice,
		&cart.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Int64("cart_id", cart.ID).Int64("user_id", userID).Msg("cart created")
	return &cart, nil
}

func (r *cartRepository) UpdatePrices(ctx context.Context, q Querier, cartID int64, total, discounted decimal.Decimal) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE carts SET total_price = $2, discounted_price = $3 WHERE id = $1`,
		cartID, total, discounted,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to update cart prices")
		return fmt.Errorf("failed to update cart prices: %w", err)
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, q Querier, cartID int64) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *cartRepository) GetItem(ctx context.Context, q Querier, itemID int64) (*model.CartItem, error) {
	q = querierOrPool(q, r.pool)
	var item model.CartItem
	err := q.QueryRow(ctx,
		`SELECT id, cart_id, pizza_id, quantity FROM cart_items WHERE id = $1`,
		itemID,
	).Scan(&item.ID, &item.CartID, &item.PizzaID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("cart_item_id", itemID).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) FindItem(ctx context.Context, q Querier, cartID, pizzaID int64) (*model.CartItem, error) {
	q = querierOrPool(q, r.pool)
	var item model.CartItem
	err := q.QueryRow(ctx,
		`SELECT id, cart_id, pizza_id, quantity FROM cart_items WHERE cart_id = $1 AND pizza_id = $2`,
		cartID, pizzaID,
	).Scan(&item.ID, &item.CartID, &item.PizzaID, &item.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(ctx context.Context, q Querier, item *model.CartItem) error {
	q = querierOrPool(q, r.pool)
	err := q.QueryRow(ctx,
		`INSERT INTO cart_items (cart_id, pizza_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
		item.CartID, item.PizzaID, item.Quantity,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", item.CartID).Msg("failed to create cart item")
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, q Querier, itemID int64, quantity int) error {
	q = querierOrPool(q, r.pool)
	tag, err := q.Exec(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_item_id", itemID).Msg("failed to update cart item quantity")
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, q Querier, itemID int64) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_item_id", itemID).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) CountItems(ctx context.Context, q Querier, cartID int64) (int, error) {
	q = querierOrPool(q, r.pool)
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cartID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}

func (r *cartRepository) GetItems(ctx context.Context, q Querier, cartID int64) ([]model.CartItem, error) {
	q = querierOrPool(q, r.pool)
	rows, err := q.Query(ctx,
		`SELECT id, cart_id, pizza_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY id`,
		cartID,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.PizzaID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

func (r *cartRepository) FindTopping(ctx context.Context, q Querier, itemID, toppingID int64) (*model.CartTopping, error) {
	q = querierOrPool(q, r.pool)
	var t model.CartTopping
	err := q.QueryRow(ctx,
		`SELECT id, cart_item_id, topping_id, quantity FROM cart_toppings WHERE cart_item_id = $1 AND topping_id = $2`,
		itemID, toppingID,
	).Scan(&t.ID, &t.CartItemID, &t.ToppingID, &t.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart topping: %w", err)
	}
	return &t, nil
}

func (r *cartRepository) CreateTopping(ctx context.Context, q Querier, topping *model.CartTopping) error {
	q = querierOrPool(q, r.pool)
	err := q.QueryRow(ctx,
		`INSERT INTO cart_toppings (cart_item_id, topping_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
		topping.CartItemID, topping.ToppingID, topping.Quantity,
	).Scan(&topping.ID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_item_id", topping.CartItemID).Msg("failed to create cart topping")
		return fmt.Errorf("failed to create cart topping: %w", err)
	}
	return nil
}

func (r *cartRepository) UpdateToppingQuantity(ctx context.Context, q Querier, toppingID int64, quantity int) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE cart_toppings SET quantity = $2 WHERE id = $1`,
		toppingID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart topping quantity: %w", err)
	}
	return nil
}

func (r *cartRepository) GetItemToppings(ctx context.Context, q Querier, itemID int64) ([]model.CartTopping, error) {
	q = querierOrPool(q, r.pool)
	rows, err := q.Query(ctx,
		`SELECT id, cart_item_id, topping_id, quantity FROM cart_toppings WHERE cart_item_id = $1 ORDER BY id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart toppings: %w", err)
	}
	defer rows.Close()

	var toppings []model.CartTopping
	for rows.Next() {
		var t model.CartTopping
		if err := rows.Scan(&t.ID, &t.CartItemID, &t.ToppingID, &t.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart topping: %w", err)
		}
		toppings = append(toppings, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart toppings: %w", err)
	}

	return toppings, nil
}

func (r *cartRepository) GetItemViews(ctx context.Context, q Querier, cartID int64) ([]model.CartItemView, error) {
	q = querierOrPool(q, r.pool)
	itemQuery := `
		SELECT ci.id, ci.pizza_id, p.name, ci.quantity, p.price
		FROM cart_items ci
		JOIN pizzas p ON p.id = ci.pizza_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := q.Query(ctx, itemQuery, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to query cart item views")
		return nil, fmt.Errorf("failed to query cart item views: %w", err)
	}

	var views []model.CartItemView
	index := make(map[int64]int)
	for rows.Next() {
		var v model.CartItemView
		if err := rows.Scan(&v.CartItemID, &v.PizzaID, &v.PizzaName, &v.Quantity, &v.ItemPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart item view: %w", err)
		}
		index[v.CartItemID] = len(views)
		views = append(views, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart item views: %w", err)
	}

	if len(views) == 0 {
		return views, nil
	}

	toppingQuery := `
		SELECT ct.cart_item_id, ct.topping_id, t.name, ct.quantity, t.price * ct.quantity
		FROM cart_toppings ct
		JOIN toppings t ON t.id = ct.topping_id
		JOIN cart_items ci ON ci.id = ct.cart_item_id
		WHERE ci.cart_id = $1
		ORDER BY ct.id
	`

	toppingRows, err := q.Query(ctx, toppingQuery, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart topping views: %w", err)
	}
	defer toppingRows.Close()

	for toppingRows.Next() {
		var itemID int64
		var tv model.CartToppingView
		if err := toppingRows.Scan(&itemID, &tv.ToppingID, &tv.ToppingName, &tv.Quantity, &tv.Price); err != nil {
			return nil, fmt.Errorf("failed to scan cart topping view: %w", err)
		}
		if i, ok := index[itemID]; ok {
			views[i].Toppings = append(views[i].Toppings, tv)
		}
	}

	if err := toppingRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart topping views: %w", err)
	}

	return views, nil
}

func (r *cartRepository) ClearItems(ctx context.Context, q Querier, cartID int64) error {
	q = querierOrPool(q, r.pool)
	// Toppings cascade from cart_items; the cart row itself stays.
	_, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}
