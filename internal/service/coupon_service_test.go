package service

import (
	"context"
	"testing"
	"time"

	"pizza-paradise/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCouponService_Create_BackfillsLedger(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	mockTx := new(MockTx)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	req := &model.CouponRequest{
		Code:           "SAVE5",
		Discount:       d("5.00"),
		ExpirationDate: time.Now().AddDate(0, 1, 0),
	}

	couponRepo.On("BeginTx", ctx).Return(mockTx, nil)
	couponRepo.On("GetByCode", ctx, mockTx, "SAVE5").Return(nil, nil)
	couponRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Coupon")).
		Run(func(args mock.Arguments) {
			coupon := args.Get(2).(*model.Coupon)
			coupon.ID = 4
		}).Return(nil)
	couponRepo.On("BackfillForCoupon", ctx, mockTx, int64(4)).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	coupon, err := svc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, int64(4), coupon.ID)
	assert.Equal(t, "SAVE5", coupon.Code)
	couponRepo.AssertExpectations(t)
	assert.True(t, mockTx.committed)
}

func TestCouponService_Create_CodeTaken(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	mockTx := new(MockTx)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	couponRepo.On("BeginTx", ctx).Return(mockTx, nil)
	couponRepo.On("GetByCode", ctx, mockTx, "SAVE5").Return(&model.Coupon{ID: 4, Code: "SAVE5"}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Create(ctx, &model.CouponRequest{Code: "SAVE5", Discount: d("5.00")})

	assert.ErrorIs(t, err, model.ErrCouponCodeTaken)
	assert.True(t, mockTx.rolledBack)
	couponRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCouponService_Update_NotFound(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	couponRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	_, err := svc.Update(ctx, 99, &model.CouponRequest{Code: "X"})

	assert.ErrorIs(t, err, model.ErrCouponNotFound)
}

func TestCouponService_Delete_RemovesCouponAndLedger(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	mockTx := new(MockTx)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	couponRepo.On("BeginTx", ctx).Return(mockTx, nil)
	couponRepo.On("GetByID", ctx, int64(4)).Return(&model.Coupon{ID: 4, Code: "SAVE5"}, nil)
	couponRepo.On("Delete", ctx, mockTx, int64(4)).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	err := svc.Delete(ctx, 4)

	require.NoError(t, err)
	couponRepo.AssertExpectations(t)
}

func TestCouponService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	mockTx := new(MockTx)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	couponRepo.On("BeginTx", ctx).Return(mockTx, nil)
	couponRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	err := svc.Delete(ctx, 99)

	assert.ErrorIs(t, err, model.ErrCouponNotFound)
	couponRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCouponService_ActiveForUser_TruncatesToToday(t *testing.T) {
	ctx := context.Background()

	couponRepo := new(MockCouponRepository)
	svc := NewCouponService(couponRepo, zerolog.Nop())

	active := []model.ActiveCoupon{{CouponID: 4, Code: "SAVE5", Discount: d("5.00")}}
	couponRepo.On("ActiveForUser", ctx, int64(7), mock.MatchedBy(func(ts time.Time) bool {
		return ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Nanosecond() == 0
	})).Return(active, nil)

	got, err := svc.ActiveForUser(ctx, 7)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "SAVE5", got[0].Code)
}
