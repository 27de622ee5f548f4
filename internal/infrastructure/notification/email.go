package notification

import (
	"context"
	"fmt"

	"github.com/erp/installments/internal/infrastructure/config"
	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailChannel sends messages over SMTP
type EmailChannel struct {
	sender mailSender
	from   string
}

// NewEmailChannel creates an SMTP channel from config
func NewEmailChannel(cfg config.SMTPConfig) *EmailChannel {
	return &EmailChannel{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Name returns "email"
func (c *EmailChannel) Name() string {
	return "email"
}

// Send delivers msg as a plain text email
func (c *EmailChannel) Send(ctx context.Context, msg Message) error {
	if msg.To.Email == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetAddressHeader("To", msg.To.Email, msg.To.Name)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := c.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: email: %v", ErrDeliveryFailed, err)
	}
	return nil
}

var _ Channel = (*EmailChannel)(nil)
