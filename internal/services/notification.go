package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-api/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-api/pkg/sendgrid"
)

const confirmationCategory = "order-confirmation"

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

type notificationService struct {
	users        repository.UserRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(users repository.UserRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{users: users, emailService: emailService}
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order) error {

	user, err := n.users.GetUserByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up order owner: %w", err)
	}

	text, htmlBody := renderConfirmation(user, order)

	msg := &sendgrid.Message{
		To:       user.Email,
		ToName:   user.Name,
		Subject:  fmt.Sprintf("Your order %s has been placed", order.ID.String()[:8]),
		Text:     text,
		HTML:     htmlBody,
		Category: confirmationCategory,
	}

	if err := n.emailService.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	return nil
}

func renderConfirmation(user *models.User, order *models.Order) (string, string) {

	var text, body strings.Builder

	greeting := "Hi"
	if user.Name != "" {
		greeting += " " + user.Name
	}

	fmt.Fprintf(&text, "%s,\n\nThanks for your order %s.\n\n", greeting, order.ID)
	fmt.Fprintf(&body, "<p>%s,</p><p>Thanks for your order <b>%s</b>.</p><ul>", html.EscapeString(greeting), order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&text, "%d x %s @ %s\n", item.Quantity, item.ProductName, item.Price.StringFixed(2))
		fmt.Fprintf(&body, "<li>%d x %s @ %s</li>", item.Quantity, html.EscapeString(item.ProductName), item.Price.StringFixed(2))
	}

	fmt.Fprintf(&text, "\nTotal: %s\n", order.TotalPrice.StringFixed(2))
	fmt.Fprintf(&body, "</ul><p>Total: <b>%s</b></p>", order.TotalPrice.StringFixed(2))

	return text.String(), body.String()
}
