// Package sendgrid delivers transactional mail through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"fmt"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Message is a single recipient email. HTML is optional.
type Message struct {
	To       string
	ToName   string
	Subject  string
	Text     string
	HTML     string
	Category string
}

type EmailService interface {
	Send(ctx context.Context, msg *Message) error
}

type Option func(*emailService)

// WithHost points the client at another API host, e.g. a local sink.
func WithHost(host string) Option {
	return func(e *emailService) {
		e.host = host
	}
}

type emailService struct {
	apiKey string
	host   string
	from   *mail.Email
}

func NewEmailService(apiKey string, fromEmail string, fromName string, opts ...Option) EmailService {
	e := &emailService{
		apiKey: apiKey,
		host:   defaultHost,
		from:   mail.NewEmail(fromName, fromEmail),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *emailService) build(msg *Message) *mail.SGMailV3 {

	message := mail.NewV3Mail()
	message.SetFrom(e.from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(msg.ToName, msg.To))
	personalization.Subject = msg.Subject
	message.AddPersonalizations(personalization)

	// SendGrid rejects text/html ahead of text/plain
	message.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	if msg.Category != "" {
		message.AddCategories(msg.Category)
	}

	return message
}

func (e *emailService) Send(ctx context.Context, msg *Message) error {

	request := sg.GetRequest(e.apiKey, sendEndpoint, e.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(e.build(msg))

	resp, err := sg.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", resp.StatusCode)
	}

	return nil
}
