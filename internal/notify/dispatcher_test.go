package notify

import (
	"context"
	"testing"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingSender records the last message handed to it.
type capturingSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (c *capturingSender) Send(to, subject, htmlBody string) error {
	c.to = to
	c.subject = subject
	c.body = htmlBody
	return c.err
}

// stubOrderRepo serves a single canned order detail.
type stubOrderRepo struct {
	repository.OrderRepository
	detail *model.OrderDetail
}

func (s *stubOrderRepo) GetDetail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	return s.detail, nil
}

// stubUserRepo serves a single canned user.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.user, nil
}

func testOrderDetail() *model.OrderDetail {
	return &model.OrderDetail{
		OrderID:    42,
		UserID:     7,
		Status:     model.StatusReceived,
		TotalPrice: decimal.RequireFromString("22.00"),
		Items: []model.OrderItemView{
			{
				PizzaName: "Margherita",
				Quantity:  2,
				ItemPrice: decimal.RequireFromString("20.00"),
				Toppings: []model.OrderToppingView{
					{ToppingName: "Olives", Quantity: 1, Price: decimal.RequireFromString("2.00")},
				},
			},
		},
	}
}

func TestDispatcher_SendOrderConfirmation(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(
		sender,
		&stubOrderRepo{detail: testOrderDetail()},
		&stubUserRepo{user: &model.User{ID: 7, Name: "Alice", Email: "alice@example.com"}},
		zerolog.Nop(),
	)

	err := d.SendOrderConfirmation(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sender.to)
	assert.Equal(t, "Order #42 confirmed", sender.subject)
	assert.Contains(t, sender.body, "Thank you for your order, Alice!")
	assert.Contains(t, sender.body, "#42")
	assert.Contains(t, sender.body, "Margherita")
	assert.Contains(t, sender.body, "+ Olives")
	assert.Contains(t, sender.body, "&#8377;22.00")
}

func TestDispatcher_SendOrderConfirmation_OrderMissing(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(
		sender,
		&stubOrderRepo{detail: nil},
		&stubUserRepo{user: &model.User{ID: 7}},
		zerolog.Nop(),
	)

	err := d.SendOrderConfirmation(context.Background(), 42)

	assert.Error(t, err)
	assert.Empty(t, sender.to)
}

func TestDispatcher_SendOrderConfirmation_UserMissing(t *testing.T) {
	sender := &capturingSender{}
	d := NewDispatcher(
		sender,
		&stubOrderRepo{detail: testOrderDetail()},
		&stubUserRepo{user: nil},
		zerolog.Nop(),
	)

	err := d.SendOrderConfirmation(context.Background(), 42)

	assert.Error(t, err)
	assert.Empty(t, sender.to)
}
