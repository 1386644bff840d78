package service

import (
	"context"
	"testing"

	"pizza-paradise/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_ListForUser_ExpandsEachOrder(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	orders := []model.Order{
		{ID: 2, UserID: 7, Status: model.StatusPreparing},
		{ID: 1, UserID: 7, Status: model.StatusCompleted},
	}
	orderRepo.On("ListByUser", ctx, int64(7)).Return(orders, nil)
	orderRepo.On("GetDetail", ctx, int64(2)).Return(&model.OrderDetail{OrderID: 2, Status: model.StatusPreparing}, nil)
	orderRepo.On("GetDetail", ctx, int64(1)).Return(&model.OrderDetail{OrderID: 1, Status: model.StatusCompleted}, nil)

	got, err := svc.ListForUser(ctx, 7)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].OrderID)
	assert.Equal(t, int64(1), got[1].OrderID)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_ListForUser_SkipsVanishedOrders(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	orders := []model.Order{
		{ID: 2, UserID: 7},
		{ID: 1, UserID: 7},
	}
	orderRepo.On("ListByUser", ctx, int64(7)).Return(orders, nil)
	orderRepo.On("GetDetail", ctx, int64(2)).Return(nil, nil)
	orderRepo.On("GetDetail", ctx, int64(1)).Return(&model.OrderDetail{OrderID: 1}, nil)

	got, err := svc.ListForUser(ctx, 7)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].OrderID)
}

func TestOrderService_GetDetail_NotFound(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	orderRepo.On("GetDetail", ctx, int64(99)).Return(nil, nil)

	_, err := svc.GetDetail(ctx, 99)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	orderRepo.On("UpdateStatus", ctx, int64(42), model.StatusBaking).Return(nil)

	err := svc.UpdateStatus(ctx, 42, model.StatusBaking)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	err := svc.UpdateStatus(ctx, 42, model.OrderStatus("TELEPORTING"))

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepository)
	svc := NewOrderService(orderRepo, zerolog.Nop())

	orderRepo.On("Delete", ctx, int64(42)).Return(nil)

	err := svc.Delete(ctx, 42)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
}
