// Package workflow drives orders through the fixed fulfillment sequence
// in the background after checkout.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runner advances orders through the status sequence on a bounded worker
// pool. Each stage is applied after a fixed delay, and an order that
// disappears mid-flight (an admin deleted it) aborts its progression
// silently.
type Runner struct {
	orderRepo  repository.OrderRepository
	stageDelay time.Duration
	logger     zerolog.Logger

	jobs   chan int64
	done   chan struct{}
	group  *errgroup.Group
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight map[int64]struct{}
	closed   bool
}

// NewRunner creates a runner with maxConcurrent workers and starts them.
func NewRunner(orderRepo repository.OrderRepository, stageDelay time.Duration, maxConcurrent int, logger zerolog.Logger) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	r := &Runner{
		orderRepo:  orderRepo,
		stageDelay: stageDelay,
		logger:     logger.With().Str("component", "order-workflow").Logger(),
		jobs:       make(chan int64, maxConcurrent*4),
		done:       make(chan struct{}),
		group:      group,
		cancel:     cancel,
		inFlight:   make(map[int64]struct{}),
	}

	for i := 0; i < maxConcurrent; i++ {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case orderID := <-r.jobs:
					r.advance(ctx, orderID)
					r.mu.Lock()
					delete(r.inFlight, orderID)
					r.mu.Unlock()
				}
			}
		})
	}

	r.logger.Info().
		Int("workers", maxConcurrent).
		Dur("stage_delay", stageDelay).
		Msg("order workflow started")

	return r
}

// Start enqueues an order for fulfillment. An order already in flight is
// not enqueued twice.
func (r *Runner) Start(orderID int64) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if _, exists := r.inFlight[orderID]; exists {
		r.mu.Unlock()
		r.logger.Debug().Int64("order_id", orderID).Msg("order already in flight")
		return
	}
	r.inFlight[orderID] = struct{}{}
	r.mu.Unlock()

	// The queue may be full, so a shutdown must be able to unblock the
	// send. r.jobs is never closed; workers exit via context cancel.
	select {
	case r.jobs <- orderID:
	case <-r.done:
		r.mu.Lock()
		delete(r.inFlight, orderID)
		r.mu.Unlock()
	}
}

// advance walks the order through every stage, waiting stageDelay before
// each transition. A vanished order stops the walk without error.
func (r *Runner) advance(ctx context.Context, orderID int64) {
	for _, status := range model.OrderStatuses {
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.stageDelay):
		}

		if _, err := r.orderRepo.GetStatus(ctx, orderID); err != nil {
			if errors.Is(err, model.ErrOrderNotFound) {
				r.logger.Info().Int64("order_id", orderID).Msg("order vanished, stopping workflow")
				return
			}
			r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to read order status")
			return
		}

		if err := r.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
			if errors.Is(err, model.ErrOrderNotFound) {
				r.logger.Info().Int64("order_id", orderID).Msg("order vanished, stopping workflow")
				return
			}
			r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to update order status")
			return
		}

		r.logger.Debug().
			Int64("order_id", orderID).
			Str("status", string(status)).
			Msg("order advanced")

		if status == model.StatusCompleted {
			break
		}
	}

	r.logger.Info().Int64("order_id", orderID).Msg("order fulfillment completed")
}

// Close stops accepting orders, cancels in-flight progressions and waits
// for the workers to exit.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.done)
	r.cancel()
	return r.group.Wait()
}
