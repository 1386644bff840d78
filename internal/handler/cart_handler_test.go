package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pizza-paradise/internal/middleware"
	"pizza-paradise/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) (*model.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID int64, req *model.AddCartItemRequest) (*model.Cart, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID int64) (*model.RemoveItemResult, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoveItemResult), args.Error(1)
}

func (m *MockCartService) ApplyCoupon(ctx context.Context, userID int64, code string) (*model.Cart, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveCoupon(ctx context.Context, userID int64) (*model.RemoveCouponResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RemoveCouponResult), args.Error(1)
}

func (m *MockCartService) Checkout(ctx context.Context, userID int64) (*model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// recordingNotifier notes the order it was asked to confirm and shares a
// call log with recordingStarter so relative ordering can be asserted.
type recordingNotifier struct {
	calls   *[]string
	orderID int64
	err     error
}

func (n *recordingNotifier) SendOrderConfirmation(ctx context.Context, orderID int64) error {
	n.orderID = orderID
	*n.calls = append(*n.calls, "email")
	return n.err
}

type recordingStarter struct {
	calls   *[]string
	orderID int64
}

func (s *recordingStarter) Start(orderID int64) {
	s.orderID = orderID
	*s.calls = append(*s.calls, "workflow")
}

func checkoutRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", nil)
	return authenticate(t, testTokenManager(), model.Principal{UserID: 7, Role: model.RoleUser}, req)
}

func TestCartHandler_Checkout_SendsEmailBeforeWorkflow(t *testing.T) {
	logger := zerolog.Nop()
	tokens := testTokenManager()

	order := &model.Order{ID: 42, UserID: 7, Status: model.StatusReceived, TotalPrice: decimal.RequireFromString("22.00")}
	mockService := new(MockCartService)
	mockService.On("Checkout", mock.Anything, int64(7)).Return(order, nil)

	var calls []string
	notifier := &recordingNotifier{calls: &calls}
	starter := &recordingStarter{calls: &calls}

	h := NewCartHandler(mockService, notifier, starter, logger)
	wrapped := middleware.RequireUser(tokens, logger)(http.HandlerFunc(h.Checkout))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, checkoutRequest(t))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"email", "workflow"}, calls)
	assert.Equal(t, int64(42), notifier.orderID)
	assert.Equal(t, int64(42), starter.orderID)

	var resp MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Order placed successfully", resp.Message)
}

func TestCartHandler_Checkout_SurfacesEmailFailure(t *testing.T) {
	logger := zerolog.Nop()
	tokens := testTokenManager()

	order := &model.Order{ID: 42, UserID: 7, Status: model.StatusReceived, TotalPrice: decimal.RequireFromString("22.00")}
	mockService := new(MockCartService)
	mockService.On("Checkout", mock.Anything, int64(7)).Return(order, nil)

	var calls []string
	notifier := &recordingNotifier{calls: &calls, err: errors.New("smtp connection refused")}
	starter := &recordingStarter{calls: &calls}

	h := NewCartHandler(mockService, notifier, starter, logger)
	wrapped := middleware.RequireUser(tokens, logger)(http.HandlerFunc(h.Checkout))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, checkoutRequest(t))

	// The order is already committed, so the response stays a success but
	// reports the failed send. The workflow still starts.
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"email", "workflow"}, calls)

	var resp MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Message, "confirmation email could not be sent")
}

func TestCartHandler_Checkout_EmptyCart(t *testing.T) {
	logger := zerolog.Nop()
	tokens := testTokenManager()

	mockService := new(MockCartService)
	mockService.On("Checkout", mock.Anything, int64(7)).Return(nil, model.ErrEmptyCart)

	var calls []string
	notifier := &recordingNotifier{calls: &calls}
	starter := &recordingStarter{calls: &calls}

	h := NewCartHandler(mockService, notifier, starter, logger)
	wrapped := middleware.RequireUser(tokens, logger)(http.HandlerFunc(h.Checkout))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, checkoutRequest(t))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, calls)
}
