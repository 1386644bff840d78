package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizza-paradise/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

func (r *couponRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (r *couponRepository) GetAll(ctx context.Context) ([]model.Coupon, error) {
	query := `
		SELECT id, code, discount, expiration_date, usage_limit, created_at
		FROM coupons
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Discount, &c.ExpirationDate, &c.UsageLimit, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	var c model.Coupon
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, discount, expiration_date, usage_limit, created_at FROM coupons WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Code, &c.Discount, &c.ExpirationDate, &c.UsageLimit, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("coupon_id", id).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}
	return &c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, q Querier, code string) (*model.Coupon, error) {
	q = querierOrPool(q, r.pool)
	var c model.Coupon
	err := q.QueryRow(ctx,
		`SELECT id, code, discount, expiration_date, usage_limit, created_at FROM coupons WHERE code = $1`,
		code,
	).Scan(&c.ID, &c.Code, &c.Discount, &c.ExpirationDate, &c.UsageLimit, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon by code")
		return nil, fmt.Errorf("failed to query coupon by code: %w", err)
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, q Querier, coupon *model.Coupon) error {
	q = querierOrPool(q, r.pool)
	err := q.QueryRow(ctx,
		`INSERT INTO coupons (code, discount, expiration_date, usage_limit)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		coupon.Code, coupon.Discount, coupon.ExpirationDate, coupon.UsageLimit,
	).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupons SET code = $2, discount = $3, expiration_date = $4, usage_limit = $5 WHERE id = $1`,
		coupon.ID, coupon.Code, coupon.Discount, coupon.ExpirationDate, coupon.UsageLimit,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", coupon.ID).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, q Querier, id int64) error {
	q = querierOrPool(q, r.pool)
	// Usage rows reference the coupon without ON DELETE CASCADE; remove
	// them first so the coupon delete cannot orphan the ledger.
	if _, err := q.Exec(ctx, `DELETE FROM user_coupon_usage WHERE coupon_id = $1`, id); err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon usages")
		return fmt.Errorf("failed to delete coupon usages: %w", err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", id).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) GetUsageForUpdate(ctx context.Context, q Querier, userID, couponID int64) (*model.CouponUsage, error) {
	q = querierOrPool(q, r.pool)
	query := `
		SELECT id, user_id, coupon_id, used, used_at
		FROM user_coupon_usage
		WHERE user_id = $1 AND coupon_id = $2
		FOR UPDATE
	`

	var u model.CouponUsage
	err := q.QueryRow(ctx, query, userID, couponID).Scan(&u.ID, &u.UserID, &u.CouponID, &u.Used, &u.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Int64("user_id", userID).
			Int64("coupon_id", couponID).
			Msg("failed to query coupon usage")
		return nil, fmt.Errorf("failed to query coupon usage: %w", err)
	}
	return &u, nil
}

func (r *couponRepository) CreateUsage(ctx context.Context, q Querier, usage *model.CouponUsage) error {
	q = querierOrPool(q, r.pool)
	err := q.QueryRow(ctx,
		`INSERT INTO user_coupon_usage (user_id, coupon_id, used, used_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		usage.UserID, usage.CouponID, usage.Used, usage.UsedAt,
	).Scan(&usage.ID)
	if err != nil {
		r.logger.Error().Err(err).
			Int64("user_id", usage.UserID).
			Int64("coupon_id", usage.CouponID).
			Msg("failed to create coupon usage")
		return fmt.Errorf("failed to create coupon usage: %w", err)
	}
	return nil
}

func (r *couponRepository) SetUsed(ctx context.Context, q Querier, usageID int64, usedAt time.Time) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE user_coupon_usage SET used = TRUE, used_at = $2 WHERE id = $1`,
		usageID, usedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("usage_id", usageID).Msg("failed to mark coupon usage used")
		return fmt.Errorf("failed to mark coupon usage used: %w", err)
	}
	return nil
}

func (r *couponRepository) ClearUsed(ctx context.Context, q Querier, usageID int64) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx,
		`UPDATE user_coupon_usage SET used = FALSE, used_at = NULL WHERE id = $1`,
		usageID,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("usage_id", usageID).Msg("failed to reset coupon usage")
		return fmt.Errorf("failed to reset coupon usage: %w", err)
	}
	return nil
}

func (r *couponRepository) GetActiveUsage(ctx context.Context, q Querier, userID int64) (*model.CouponUsage, *model.Coupon, error) {
	q = querierOrPool(q, r.pool)
	query := `
		SELECT u.id, u.user_id, u.coupon_id, u.used, u.used_at,
		       c.id, c.code, c.discount, c.expiration_date, c.usage_limit, c.created_at
		FROM user_coupon_usage u
		JOIN coupons c ON c.id = u.coupon_id
		WHERE u.user_id = $1 AND u.used = TRUE
		LIMIT 1
	`

	var u model.CouponUsage
	var c model.Coupon
	err := q.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.UserID, &u.CouponID, &u.Used, &u.UsedAt,
		&c.ID, &c.Code, &c.Discount, &c.ExpirationDate, &c.UsageLimit, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query active coupon usage")
		return nil, nil, fmt.Errorf("failed to query active coupon usage: %w", err)
	}
	return &u, &c, nil
}

func (r *couponRepository) DeleteUsedByUser(ctx context.Context, q Querier, userID int64) error {
	q = querierOrPool(q, r.pool)
	_, err := q.Exec(ctx,
		`DELETE FROM user_coupon_usage WHERE user_id = $1 AND used = TRUE`,
		userID,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear used coupon usages")
		return fmt.Errorf("failed to clear used coupon usages: %w", err)
	}
	return nil
}

func (r *couponRepository) BackfillForCoupon(ctx context.Context, q Querier, couponID int64) error {
	q = querierOrPool(q, r.pool)
	query := `
		INSERT INTO user_coupon_usage (user_id, coupon_id)
		SELECT id, $1 FROM users
		ON CONFLICT (user_id, coupon_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, couponID)
	if err != nil {
		r.logger.Error().Err(err).Int64("coupon_id", couponID).Msg("failed to backfill usages for coupon")
		return fmt.Errorf("failed to backfill usages for coupon: %w", err)
	}

	r.logger.Debug().
		Int64("coupon_id", couponID).
		Int64("rows", tag.RowsAffected()).
		Msg("coupon usage backfill complete")
	return nil
}

func (r *couponRepository) BackfillForUser(ctx context.Context, q Querier, userID int64) error {
	q = querierOrPool(q, r.pool)
	query := `
		INSERT INTO user_coupon_usage (user_id, coupon_id)
		SELECT $1, id FROM coupons
		ON CONFLICT (user_id, coupon_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to backfill usages for user")
		return fmt.Errorf("failed to backfill usages for user: %w", err)
	}

	r.logger.Debug().
		Int64("user_id", userID).
		Int64("rows", tag.RowsAffected()).
		Msg("user usage backfill complete")
	return nil
}

func (r *couponRepository) ActiveForUser(ctx context.Context, userID int64, now time.Time) ([]model.ActiveCoupon, error) {
	query := `
		SELECT c.id, c.code, c.discount, c.expiration_date
		FROM coupons c
		JOIN user_coupon_usage u ON u.coupon_id = c.id
		WHERE u.user_id = $1 AND u.used = FALSE AND c.expiration_date >= $2
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query, userID, now)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query active coupons")
		return nil, fmt.Errorf("failed to query active coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.ActiveCoupon
	for rows.Next() {
		var c model.ActiveCoupon
		if err := rows.Scan(&c.CouponID, &c.Code, &c.Discount, &c.ExpirationDate); err != nil {
			return nil, fmt.Errorf("failed to scan active coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active coupons: %w", err)
	}

	return coupons, nil
}
