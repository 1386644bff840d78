package service

import (
	"context"
	"time"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, q repository.Querier, user *model.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// MockPizzaRepository is a mock implementation of repository.PizzaRepository.
type MockPizzaRepository struct {
	mock.Mock
}

func (m *MockPizzaRepository) GetAll(ctx context.Context) ([]model.Pizza, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Pizza), args.Error(1)
}

func (m *MockPizzaRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*model.Pizza, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pizza), args.Error(1)
}

func (m *MockPizzaRepository) GetByName(ctx context.Context, name string) (*model.Pizza, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pizza), args.Error(1)
}

func (m *MockPizzaRepository) Create(ctx context.Context, pizza *model.Pizza) error {
	args := m.Called(ctx, pizza)
	return args.Error(0)
}

func (m *MockPizzaRepository) Update(ctx context.Context, pizza *model.Pizza) error {
	args := m.Called(ctx, pizza)
	return args.Error(0)
}

func (m *MockPizzaRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockToppingRepository is a mock implementation of repository.ToppingRepository.
type MockToppingRepository struct {
	mock.Mock
}

func (m *MockToppingRepository) GetAll(ctx context.Context) ([]model.Topping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Topping), args.Error(1)
}

func (m *MockToppingRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*model.Topping, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topping), args.Error(1)
}

func (m *MockToppingRepository) GetByName(ctx context.Context, name string) (*model.Topping, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topping), args.Error(1)
}

func (m *MockToppingRepository) Create(ctx context.Context, topping *model.Topping) error {
	args := m.Called(ctx, topping)
	return args.Error(0)
}

func (m *MockToppingRepository) Update(ctx context.Context, topping *model.Topping) error {
	args := m.Called(ctx, topping)
	return args.Error(0)
}

func (m *MockToppingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepository) GetByUser(ctx context.Context, q repository.Querier, userID int64) (*model.Cart, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*model.Cart, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, q repository.Querier, userID int64) (*model.Cart, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartRepository) UpdatePrices(ctx context.Context, q repository.Querier, cartID int64, total, discounted decimal.Decimal) error {
	args := m.Called(ctx, q, cartID, total, discounted)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, q repository.Querier, cartID int64) error {
	args := m.Called(ctx, q, cartID)
	return args.Error(0)
}

func (m *MockCartRepository) GetItem(ctx context.Context, q repository.Querier, itemID int64) (*model.CartItem, error) {
	args := m.Called(ctx, q, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(ctx context.Context, q repository.Querier, cartID, pizzaID int64) (*model.CartItem, error) {
	args := m.Called(ctx, q, cartID, pizzaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, q repository.Querier, item *model.CartItem) error {
	args := m.Called(ctx, q, item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, q repository.Querier, itemID int64, quantity int) error {
	args := m.Called(ctx, q, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, q repository.Querier, itemID int64) error {
	args := m.Called(ctx, q, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) CountItems(ctx context.Context, q repository.Querier, cartID int64) (int, error) {
	args := m.Called(ctx, q, cartID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartRepository) GetItems(ctx context.Context, q repository.Querier, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, q, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindTopping(ctx context.Context, q repository.Querier, itemID, toppingID int64) (*model.CartTopping, error) {
	args := m.Called(ctx, q, itemID, toppingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartTopping), args.Error(1)
}

func (m *MockCartRepository) CreateTopping(ctx context.Context, q repository.Querier, topping *model.CartTopping) error {
	args := m.Called(ctx, q, topping)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateToppingQuantity(ctx context.Context, q repository.Querier, toppingID int64, quantity int) error {
	args := m.Called(ctx, q, toppingID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) GetItemToppings(ctx context.Context, q repository.Querier, itemID int64) ([]model.CartTopping, error) {
	args := m.Called(ctx, q, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartTopping), args.Error(1)
}

func (m *MockCartRepository) GetItemViews(ctx context.Context, q repository.Querier, cartID int64) ([]model.CartItemView, error) {
	args := m.Called(ctx, q, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItemView), args.Error(1)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, q repository.Querier, cartID int64) error {
	args := m.Called(ctx, q, cartID)
	return args.Error(0)
}

// MockCouponRepository is a mock implementation of repository.CouponRepository.
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCouponRepository) GetAll(ctx context.Context) ([]model.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, q repository.Querier, code string) (*model.Coupon, error) {
	args := m.Called(ctx, q, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, q repository.Querier, coupon *model.Coupon) error {
	args := m.Called(ctx, q, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Update(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, q repository.Querier, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockCouponRepository) GetUsageForUpdate(ctx context.Context, q repository.Querier, userID, couponID int64) (*model.CouponUsage, error) {
	args := m.Called(ctx, q, userID, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CouponUsage), args.Error(1)
}

func (m *MockCouponRepository) CreateUsage(ctx context.Context, q repository.Querier, usage *model.CouponUsage) error {
	args := m.Called(ctx, q, usage)
	return args.Error(0)
}

func (m *MockCouponRepository) SetUsed(ctx context.Context, q repository.Querier, usageID int64, usedAt time.Time) error {
	args := m.Called(ctx, q, usageID, usedAt)
	return args.Error(0)
}

func (m *MockCouponRepository) ClearUsed(ctx context.Context, q repository.Querier, usageID int64) error {
	args := m.Called(ctx, q, usageID)
	return args.Error(0)
}

func (m *MockCouponRepository) GetActiveUsage(ctx context.Context, q repository.Querier, userID int64) (*model.CouponUsage, *model.Coupon, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.CouponUsage), args.Get(1).(*model.Coupon), args.Error(2)
}

func (m *MockCouponRepository) DeleteUsedByUser(ctx context.Context, q repository.Querier, userID int64) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

func (m *MockCouponRepository) BackfillForCoupon(ctx context.Context, q repository.Querier, couponID int64) error {
	args := m.Called(ctx, q, couponID)
	return args.Error(0)
}

func (m *MockCouponRepository) BackfillForUser(ctx context.Context, q repository.Querier, userID int64) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

func (m *MockCouponRepository) ActiveForUser(ctx context.Context, userID int64, now time.Time) ([]model.ActiveCoupon, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActiveCoupon), args.Error(1)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, q repository.Querier, order *model.Order) error {
	args := m.Called(ctx, q, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, q repository.Querier, items []model.OrderItem) error {
	args := m.Called(ctx, q, items)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateToppings(ctx context.Context, q repository.Querier, toppings []model.OrderTopping) error {
	args := m.Called(ctx, q, toppings)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetStatus(ctx context.Context, id int64) (model.OrderStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.OrderStatus), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
