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

// pizzaRepository implements the PizzaRepository interface using PostgreSQL.
type pizzaRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPizzaRepository creates a new PostgreSQL-backed pizza repository.
func NewPizzaRepository(pool *pgxpool.Pool, logger zerolog.Logger) PizzaRepository {
	return &pizzaRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "pizza").Logger(),
	}
}

func (r *pizzaRepository) GetAll(ctx context.Context) ([]model.Pizza, error) {
	query := `
		SELECT id, name, description, image, price, created_at
		FROM pizzas
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query pizzas")
		return nil, fmt.Errorf("failed to query pizzas: %w", err)
	}
	defer rows.Close()

	var pizzas []model.Pizza
	for rows.Next() {
		var p model.Pizza
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pizza: %w", err)
		}
		pizzas = append(pizzas, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pizzas: %w", err)
	}

	return pizzas, nil
}

func (r *pizzaRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Pizza, error) {
	q = querierOrPool(q, r.pool)
	query := `
		SELECT id, name, description, image, price, created_at
		FROM pizzas
		WHERE id = $1
	`

	var p model.Pizza
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("pizza_id", id).Msg("failed to query pizza")
		return nil, fmt.Errorf("failed to query pizza: %w", err)
	}

	return &p, nil
}

func (r *pizzaRepository) GetByName(ctx context.Context, name string) (*model.Pizza, error) {
	query := `
		SELECT id, name, description, image, price, created_at
		FROM pizzas
		WHERE name = $1
	`

	var p model.Pizza
	err := r.pool.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query pizza by name: %w", err)
	}

	return &p, nil
}

func (r *pizzaRepository) Create(ctx context.Context, pizza *model.Pizza) error {
	query := `
		INSERT INTO pizzas (name, description, image, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, pizza.Name, pizza.Description, pizza.Image, pizza.Price).
		Scan(&pizza.ID, &pizza.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", pizza.Name).Msg("failed to create pizza")
		return fmt.Errorf("failed to create pizza: %w", err)
	}

	return nil
}

func (r *pizzaRepository) Update(ctx context.Context, pizza *model.Pizza) error {
	query := `
		UPDATE pizzas
		SET name = $2, description = $3, image = $4, price = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, pizza.ID, pizza.Name, pizza.Description, pizza.Image, pizza.Price)
	if err != nil {
		r.logger.Error().Err(err).Int64("pizza_id", pizza.ID).Msg("failed to update pizza")
		return fmt.Errorf("failed to update pizza: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPizzaNotFound
	}

	return nil
}

func (r *pizzaRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pizzas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("pizza_id", id).Msg("failed to delete pizza")
		return fmt.Errorf("failed to delete pizza: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPizzaNotFound
	}
	return nil
}

// toppingRepository implements the ToppingRepository interface using PostgreSQL.
type toppingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewToppingRepository creates a new PostgreSQL-backed topping repository.
func NewToppingRepository(pool *pgxpool.Pool, logger zerolog.Logger) ToppingRepository {
	return &toppingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "topping").Logger(),
	}
}

func (r *toppingRepository) GetAll(ctx context.Context) ([]model.Topping, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price, created_at FROM toppings ORDER BY id`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query toppings")
		return nil, fmt.Errorf("failed to query toppings: %w", err)
	}
	defer rows.Close()

	var toppings []model.Topping
	for rows.Next() {
		var t model.Topping
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topping: %w", err)
		}
		toppings = append(toppings, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating toppings: %w", err)
	}

	return toppings, nil
}

func (r *toppingRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Topping, error) {
	q = querierOrPool(q, r.pool)
	var t model.Topping
	err := q.QueryRow(ctx, `SELECT id, name, price, created_at FROM toppings WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Price, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("topping_id", id).Msg("failed to query topping")
		return nil, fmt.Errorf("failed to query topping: %w", err)
	}

	return &t, nil
}

func (r *toppingRepository) GetByName(ctx context.Context, name string) (*model.Topping, error) {
	var t model.Topping
	err := r.pool.QueryRow(ctx, `SELECT id, name, price, created_at FROM toppings WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.Price, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query topping by name: %w", err)
	}

	return &t, nil
}

func (r *toppingRepository) Create(ctx context.Context, topping *model.Topping) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO toppings (name, price) VALUES ($1, $2) RETURNING id, created_at`,
		topping.Name, topping.Price,
	).Scan(&topping.ID, &topping.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", topping.Name).Msg("failed to create topping")
		return fmt.Errorf("failed to create topping: %w", err)
	}
	return nil
}

func (r *toppingRepository) Update(ctx context.Context, topping *model.Topping) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE toppings SET name = $2, price = $3 WHERE id = $1`,
		topping.ID, topping.Name, topping.Price,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("topping_id", topping.ID).Msg("failed to update topping")
		return fmt.Errorf("failed to update topping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrToppingNotFound
	}
	return nil
}

func (r *toppingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM toppings WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("topping_id", id).Msg("failed to delete topping")
		return fmt.Errorf("failed to delete topping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrToppingNotFound
	}
	return nil
}
