package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/resendlabs/resend-go"
)

var ErrNoAPIKey = errors.New("resend api key is required")

// Message is a single outgoing HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// ResendMailer delivers mail through the Resend API.
type ResendMailer struct {
	from string
	send func(*resend.SendEmailRequest) error
}

func NewResendMailer(apiKey, fromEmail, fromName string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := resend.NewClient(apiKey)
	return &ResendMailer{
		from: formatSender(fromEmail, fromName),
		send: func(req *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(req)
			return err
		},
	}, nil
}

func formatSender(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Send ignores ctx beyond an early cancellation check; the Resend client has
// no context-aware call.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if err := m.send(req); err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return nil
}

// LogMailer only logs messages. Used when no API key is configured.
type LogMailer struct {
	logger logging.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info(ctx, "email not sent, mailer disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}
