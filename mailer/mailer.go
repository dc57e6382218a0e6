// Package mailer sends CRM emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crm/utils"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

var ErrDisabled = errors.New("email sending is not configured")

type Attachment struct {
	Name string
	Data []byte
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ConfigFromEnv reads the SMTP_* variables. An empty host disables email.
func ConfigFromEnv() Config {
	port, err := strconv.Atoi(os.Getenv(utils.SMTP_PORT))
	if err != nil || port == 0 {
		port = 587
	}

	return Config{
		Host:     os.Getenv(utils.SMTP_HOST),
		Port:     port,
		Username: os.Getenv(utils.SMTP_USERNAME),
		Password: os.Getenv(utils.SMTP_PASSWORD),
		From:     os.Getenv(utils.SMTP_FROM),
	}
}

func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type Mailer struct {
	config Config
}

func New(config Config) *Mailer {
	return &Mailer{config: config}
}

var defaultMailer = New(Config{})

// Configure replaces the mailer used by Send.
func Configure(config Config) {
	defaultMailer = New(config)
}

func Enabled() bool {
	return defaultMailer.config.Enabled()
}

func Send(ctx context.Context, message Message) error {
	return defaultMailer.Send(ctx, message)
}

// Build turns message into a go-mail message without sending it.
func (m *Mailer) Build(message Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.config.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	for _, attachment := range message.Attachments {
		if err := msg.AttachReader(attachment.Name, bytes.NewReader(attachment.Data)); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", attachment.Name, err)
		}
	}

	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, message Message) error {
	if !m.config.Enabled() {
		return ErrDisabled
	}

	msg, err := m.Build(message)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
