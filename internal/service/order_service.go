package service

import (
	"context"
	"fmt"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// ListForUser retrieves the user's orders, newest first, with lines and
// toppings expanded against the catalogue.
func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	details := make([]model.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail, err := s.orderRepo.GetDetail(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to expand order %d: %w", order.ID, err)
		}
		if detail == nil {
			continue
		}
		details = append(details, *detail)
	}

	return details, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *orderService) GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	detail, err := s.orderRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, model.ErrOrderNotFound
	}
	return detail, nil
}

// UpdateStatus overrides an order's status to any of the known stages,
// out of sequence included.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return model.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("status", string(status)).
		Msg("order status overridden")

	return nil
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}
