package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/fernwork/taskboard-api/internal/config"
)

// SMTPEmailSender implements EmailSender over SMTP.
type SMTPEmailSender struct {
	client *mail.Client
	from   string
}

// NewSMTPEmailSender creates an email sender from the SMTP configuration.
// Returns nil (channel disabled) when no host is configured.
func NewSMTPEmailSender(cfg config.SMTPConfig) (*SMTPEmailSender, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPEmailSender{client: client, from: cfg.From}, nil
}

// Send delivers one HTML email.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
