package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderRepo records status transitions. When vanishAfter is non-negative,
// the order stops existing once that many transitions have been applied.
type fakeOrderRepo struct {
	mu          sync.Mutex
	history     []model.OrderStatus
	vanishAfter int
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{vanishAfter: -1}
}

func (f *fakeOrderRepo) gone() bool {
	return f.vanishAfter >= 0 && len(f.history) >= f.vanishAfter
}

func (f *fakeOrderRepo) GetStatus(ctx context.Context, id int64) (model.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone() {
		return "", model.ErrOrderNotFound
	}
	if len(f.history) == 0 {
		return model.StatusReceived, nil
	}
	return f.history[len(f.history)-1], nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gone() {
		return model.ErrOrderNotFound
	}
	f.history = append(f.history, status)
	return nil
}

func (f *fakeOrderRepo) transitions() []model.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.OrderStatus, len(f.history))
	copy(out, f.history)
	return out
}

func (f *fakeOrderRepo) Create(ctx context.Context, q repository.Querier, order *model.Order) error {
	return nil
}

func (f *fakeOrderRepo) CreateItems(ctx context.Context, q repository.Querier, items []model.OrderItem) error {
	return nil
}

func (f *fakeOrderRepo) CreateToppings(ctx context.Context, q repository.Querier, toppings []model.OrderTopping) error {
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) { return nil, nil }

func (f *fakeOrderRepo) GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	return nil, nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id int64) error { return nil }

func TestRunner_AdvancesThroughEveryStage(t *testing.T) {
	repo := newFakeOrderRepo()
	runner := NewRunner(repo, time.Millisecond, 2, zerolog.Nop())
	defer runner.Close()

	runner.Start(1)

	require.Eventually(t, func() bool {
		return len(repo.transitions()) == len(model.OrderStatuses)
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, model.OrderStatuses, repo.transitions())
}

func TestRunner_StopsWhenOrderVanishes(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.vanishAfter = 2
	runner := NewRunner(repo, time.Millisecond, 1, zerolog.Nop())
	defer runner.Close()

	runner.Start(1)

	require.Eventually(t, func() bool {
		return len(repo.transitions()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Give the walk time to take another step if it wrongly kept going.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, repo.transitions(), 2)
}

func TestRunner_Start_DeduplicatesInFlightOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	runner := NewRunner(repo, time.Hour, 1, zerolog.Nop())
	defer runner.Close()

	runner.Start(1)
	runner.Start(1)
	runner.Start(1)

	// The worker holds the order through its first stage delay; repeated
	// starts must not queue it again.
	assert.LessOrEqual(t, len(runner.jobs), 1)
}

func TestRunner_Close_UnblocksPendingStart(t *testing.T) {
	repo := newFakeOrderRepo()
	runner := NewRunner(repo, time.Hour, 1, zerolog.Nop())

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		// One order parks the worker and four fill the queue; the last
		// send has nowhere to go until shutdown releases it.
		for id := int64(1); id <= 6; id++ {
			runner.Start(id)
		}
	}()

	// Let the goroutine reach the blocked send.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, runner.Close())

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Close")
	}
}

func TestRunner_Close_IsIdempotent(t *testing.T) {
	repo := newFakeOrderRepo()
	runner := NewRunner(repo, time.Millisecond, 1, zerolog.Nop())

	require.NoError(t, runner.Close())
	require.NoError(t, runner.Close())

	// Starting after close is a no-op rather than a send on a closed channel.
	runner.Start(1)
	assert.Empty(t, repo.transitions())
}
