package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
)

// OrderNotifier tells a buyer about a freshly placed order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, user *models.User, order *models.Order) error
}

type emailOrderNotifier struct {
	emailService sendgrid.EmailService
}

func NewEmailOrderNotifier(emailService sendgrid.EmailService) OrderNotifier {
	return &emailOrderNotifier{emailService: emailService}
}

func (n *emailOrderNotifier) OrderPlaced(ctx context.Context, user *models.User, order *models.Order) error {
	if err := n.emailService.Send(ctx, orderConfirmationEmail(user, order)); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	return nil
}

func shortOrderID(order *models.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}

func orderConfirmationEmail(user *models.User, order *models.Order) *sendgrid.EmailMessage {
	var text, markup strings.Builder

	fmt.Fprintf(&text, "Hi %s,\n\nThanks for your order #%s.\n\n", user.Name, shortOrderID(order))
	fmt.Fprintf(&markup, "<p>Hi %s,</p><p>Thanks for your order <strong>#%s</strong>.</p><ul>",
		html.EscapeString(user.Name), shortOrderID(order))

	for _, item := range order.Items {
		fmt.Fprintf(&text, "- %d x %s @ %s\n", item.Quantity, item.Name, item.Price.StringFixed(2))
		fmt.Fprintf(&markup, "<li>%d &times; %s @ %s</li>", item.Quantity, html.EscapeString(item.Name), item.Price.StringFixed(2))
	}

	fmt.Fprintf(&text, "\nItems: %s\nShipping: %s\nTax: %s\nTotal: %s\n",
		order.ItemsPrice.StringFixed(2), order.ShippingPrice.StringFixed(2),
		order.TaxPrice.StringFixed(2), order.TotalPrice.StringFixed(2))
	fmt.Fprintf(&markup, "</ul><p>Total: <strong>%s</strong></p>", order.TotalPrice.StringFixed(2))

	return &sendgrid.EmailMessage{
		To:          user.Email,
		ToName:      user.Name,
		Subject:     fmt.Sprintf("Order #%s confirmed", shortOrderID(order)),
		Content:     text.String(),
		HTMLContent: markup.String(),
	}
}

type noopNotifier struct{}

// NewNoopNotifier is used when no email provider is configured.
func NewNoopNotifier() OrderNotifier {
	return noopNotifier{}
}

func (noopNotifier) OrderPlaced(context.Context, *models.User, *models.Order) error {
	return nil
}
