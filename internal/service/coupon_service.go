package service

import (
	"context"
	"fmt"
	"time"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

func (s *couponService) GetAll(ctx context.Context) ([]model.Coupon, error) {
	return s.couponRepo.GetAll(ctx)
}

func (s *couponService) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

// Create adds a coupon and backfills an unused ledger row for every
// existing user, so every (user, coupon) pair has a row from the start.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	tx, err := s.couponRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	existing, err := s.couponRepo.GetByCode(ctx, tx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if existing != nil {
		err = model.ErrCouponCodeTaken
		return nil, err
	}

	coupon := &model.Coupon{
		Code:           req.Code,
		Discount:       req.Discount,
		ExpirationDate: req.ExpirationDate,
		UsageLimit:     req.UsageLimit,
	}
	if err = s.couponRepo.Create(ctx, tx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	if err = s.couponRepo.BackfillForCoupon(ctx, tx, coupon.ID); err != nil {
		return nil, fmt.Errorf("failed to backfill coupon usage: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().
		Int64("coupon_id", coupon.ID).
		Str("code", coupon.Code).
		Msg("coupon created")

	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, id int64, req *model.CouponRequest) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, model.ErrCouponNotFound
	}

	coupon.Code = req.Code
	coupon.Discount = req.Discount
	coupon.ExpirationDate = req.ExpirationDate
	coupon.UsageLimit = req.UsageLimit

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	s.logger.Info().Int64("coupon_id", id).Msg("coupon updated")
	return coupon, nil
}

// Delete removes a coupon together with all of its ledger rows.
func (s *couponService) Delete(ctx context.Context, id int64) error {
	tx, err := s.couponRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if coupon == nil {
		err = model.ErrCouponNotFound
		return err
	}

	if err = s.couponRepo.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.logger.Info().Int64("coupon_id", id).Msg("coupon deleted")
	return nil
}

// ActiveForUser lists the coupons the user can still redeem: unused ledger
// rows whose coupon has not expired as of today.
func (s *couponService) ActiveForUser(ctx context.Context, userID int64) ([]model.ActiveCoupon, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.couponRepo.ActiveForUser(ctx, userID, today)
}
