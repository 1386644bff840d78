package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
)

// orderEmailTemplate renders the order confirmation sent after checkout.
var orderEmailTemplate = template.Must(template.New("order_confirmation").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Thank you for your order, {{.Name}}!</h2>
	<p>Your order <strong>#{{.OrderID}}</strong> has been received and is being prepared.</p>
	<table style="border-collapse: collapse; width: 100%; max-width: 480px;">
		<tr style="background: #f5f5f5;">
			<th style="text-align: left; padding: 8px;">Item</th>
			<th style="text-align: right; padding: 8px;">Qty</th>
			<th style="text-align: right; padding: 8px;">Price</th>
		</tr>
		{{range .Items}}
		<tr>
			<td style="padding: 8px;">{{.PizzaName}}</td>
			<td style="text-align: right; padding: 8px;">{{.Quantity}}</td>
			<td style="text-align: right; padding: 8px;">&#8377;{{.ItemPrice}}</td>
		</tr>
		{{range .Toppings}}
		<tr>
			<td style="padding: 8px 8px 8px 24px; color: #666;">+ {{.ToppingName}}</td>
			<td style="text-align: right; padding: 8px; color: #666;">{{.Quantity}}</td>
			<td style="text-align: right; padding: 8px; color: #666;">&#8377;{{.Price}}</td>
		</tr>
		{{end}}
		{{end}}
		<tr>
			<td style="padding: 8px; font-weight: bold;">Total</td>
			<td></td>
			<td style="text-align: right; padding: 8px; font-weight: bold;">&#8377;{{.TotalPrice}}</td>
		</tr>
	</table>
	<p>We will let you know when it is ready for pickup.</p>
	<p>Pizza Paradise</p>
</body>
</html>`))

type orderEmailData struct {
	Name       string
	OrderID    int64
	Items      []model.OrderItemView
	TotalPrice string
}

// Dispatcher sends order lifecycle notifications.
type Dispatcher struct {
	sender    Sender
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(sender Sender, orderRepo repository.OrderRepository, userRepo repository.UserRepository, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger.With().Str("component", "notify-dispatcher").Logger(),
	}
}

// SendOrderConfirmation emails the order's owner a confirmation with the
// full item breakdown. Errors are returned for logging only; callers must
// not fail the checkout over them.
func (d *Dispatcher) SendOrderConfirmation(ctx context.Context, orderID int64) error {
	detail, err := d.orderRepo.GetDetail(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if detail == nil {
		return fmt.Errorf("order %d not found", orderID)
	}

	user, err := d.userRepo.GetByID(ctx, detail.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", detail.UserID, err)
	}
	if user == nil {
		return fmt.Errorf("user %d not found", detail.UserID)
	}

	var body bytes.Buffer
	err = orderEmailTemplate.Execute(&body, orderEmailData{
		Name:       user.Name,
		OrderID:    detail.OrderID,
		Items:      detail.Items,
		TotalPrice: detail.TotalPrice.StringFixed(2),
	})
	if err != nil {
		return fmt.Errorf("failed to render order email: %w", err)
	}

	subject := fmt.Sprintf("Order #%d confirmed", detail.OrderID)
	if err := d.sender.Send(user.Email, subject, body.String()); err != nil {
		return err
	}

	d.logger.Info().
		Int64("order_id", orderID).
		Int64("user_id", user.ID).
		Msg("order confirmation sent")

	return nil
}
