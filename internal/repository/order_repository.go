package repository

import (
	"context"
	"errors"
	"fmt"

	"pizza-paradise/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func (r *orderRepository) Create(ctx context.Context, q Querier, order *model.Order) error {
	q = querierOrPool(q, r.pool)
	query := `
		INSERT INTO orders (user_id, status, total_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, order.UserID, order.Status, order.TotalPrice).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", order.UserID).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().Int64("order_id", order.ID).Msg("order created")
	return nil
}

func (r *orderRepository) CreateItems(ctx context.Context, q Querier, items []model.OrderItem) error {
	q = querierOrPool(q, r.pool)
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, pizza_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.PizzaID, item.Quantity)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("pizza_id", items[i].PizzaID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")
	return nil
}

func (r *orderRepository) CreateToppings(ctx context.Context, q Querier, toppings []model.OrderTopping) error {
	q = querierOrPool(q, r.pool)
	if len(toppings) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_toppings (order_item_id, topping_id, quantity)
		VALUES ($1, $2, $3)
	`

	batch := &pgx.Batch{}
	for _, t := range toppings {
		batch.Queue(query, t.OrderItemID, t.ToppingID, t.Quantity)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(toppings); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Msg("failed to create order topping")
			return fmt.Errorf("failed to create order topping: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(toppings)).Msg("order toppings created")
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) GetStatus(ctx context.Context, id int64) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrOrderNotFound
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order status")
		return "", fmt.Errorf("failed to query order status: %w", err)
	}
	return status, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	detail := &model.OrderDetail{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}

	itemQuery := `
		SELECT oi.id, oi.pizza_id, p.name, oi.quantity, p.price * oi.quantity
		FROM order_items oi
		JOIN pizzas p ON p.id = oi.pizza_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.pool.Query(ctx, itemQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}

	index := make(map[int64]int)
	for rows.Next() {
		var v model.OrderItemView
		if err := rows.Scan(&v.ID, &v.PizzaID, &v.PizzaName, &v.Quantity, &v.ItemPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		index[v.ID] = len(detail.Items)
		detail.Items = append(detail.Items, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	if len(detail.Items) == 0 {
		return detail, nil
	}

	toppingQuery := `
		SELECT ot.order_item_id, ot.topping_id, t.name, ot.quantity, t.price * ot.quantity
		FROM order_toppings ot
		JOIN toppings t ON t.id = ot.topping_id
		JOIN order_items oi ON oi.id = ot.order_item_id
		WHERE oi.order_id = $1
		ORDER BY ot.id
	`

	toppingRows, err := r.pool.Query(ctx, toppingQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order toppings: %w", err)
	}
	defer toppingRows.Close()

	for toppingRows.Next() {
		var tv model.OrderToppingView
		if err := toppingRows.Scan(&tv.OrderItemID, &tv.ToppingID, &tv.ToppingName, &tv.Quantity, &tv.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order topping: %w", err)
		}
		if i, ok := index[tv.OrderItemID]; ok {
			detail.Items[i].Toppings = append(detail.Items[i].Toppings, tv)
			detail.Items[i].TotalToppingPrice = detail.Items[i].TotalToppingPrice.Add(tv.Price)
		}
	}

	if err := toppingRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order toppings: %w", err)
	}

	return detail, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}
