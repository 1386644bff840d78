package repository

import (
	"context"
	"testing"
	"time"

	"pizza-paradise/internal/database"
	"pizza-paradise/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, database.Schema)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func createTestUser(t *testing.T, pool *pgxpool.Pool, email string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (name, email, password, role) VALUES ($1, $2, 'hash', 'user') RETURNING id`,
		"Test User", email,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestPizza(t *testing.T, pool *pgxpool.Pool, name string, price string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO pizzas (name, description, price) VALUES ($1, '', $2) RETURNING id`,
		name, price,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestTopping(t *testing.T, pool *pgxpool.Pool, name string, price string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO toppings (name, price) VALUES ($1, $2) RETURNING id`,
		name, price,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestCoupon(t *testing.T, pool *pgxpool.Pool, code, discount string, expires time.Time) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO coupons (code, discount, expiration_date) VALUES ($1, $2, $3) RETURNING id`,
		code, discount, expires,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestOrder(t *testing.T, repo OrderRepository, userID int64, total string) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:     userID,
		Status:     model.StatusReceived,
		TotalPrice: decimal.RequireFromString(total),
	}
	require.NoError(t, repo.Create(context.Background(), nil, order))
	return order
}
