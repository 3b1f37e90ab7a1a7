package calendar

import (
	"context"
	"fmt"
	"io"

	"legal-assistant/config"

	"gopkg.in/gomail.v2"
)

// Message is an email carrying one text attachment.
type Message struct {
	Subject        string
	Body           string
	AttachmentName string
	AttachmentType string
	Attachment     []byte
}

// Mailer delivers a message to the configured receiver.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	sender   string
	receiver string
}

// NewSMTPMailer builds a mailer from the mail section of the config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Sender, cfg.SenderSecret),
		sender:   cfg.Sender,
		receiver: cfg.Receiver,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.sender)
	gm.SetHeader("To", m.receiver)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if len(msg.Attachment) > 0 {
		gm.Attach(msg.AttachmentName,
			gomail.SetHeader(map[string][]string{"Content-Type": {msg.AttachmentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(msg.Attachment)
				return err
			}),
		)
	}
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("calendar: send mail: %w", err)
	}
	return nil
}
