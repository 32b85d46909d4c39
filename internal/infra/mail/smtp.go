package mail

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/pkg/e"

	"github.com/jimlawless/whereami"
	gomail "github.com/wneessen/go-mail"
)

// SMTPで1通ずつ送る。送信元はMAIL_USERNAME
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := newMessage(m.cfg.Username, to, subject, body)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	client, err := m.newClient()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (m *SMTPMailer) newClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return gomail.NewClient(m.cfg.Server, opts...)
}

// テキストメールを組み立てる
func newMessage(from, to, subject, body string) (*gomail.Msg, error) {
	if from == "" {
		return nil, fmt.Errorf("MAIL_USERNAME is not set")
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("to %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}
