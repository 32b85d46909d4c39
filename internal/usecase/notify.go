package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"storefront/pkg/logger"
)

// メール送信の窓口
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// 注文イベントの送信先（Kafka）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, r Receipt) error
}

var orderEmailTmpl = template.Must(template.New("order_email").Parse(`
Your Order is Placed!

Customer: {{.Customer.Name}}
Email: {{.Customer.Email}}
Phone: {{.Customer.Phone}}
Address: {{.Customer.Address}}

Order Details:
{{range .Lines}}{{.Product.Name}} x{{.Qty}} - Rs.{{.Subtotal.StringFixed 2}}
{{end}}
Total: Rs.{{.Total.StringFixed 2}}
`))

// RenderOrderEmail はオーナーと購入者に送る本文を作る（同じ本文）
func RenderOrderEmail(r Receipt) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// 注文通知。オーナー宛て・購入者宛てのメールとイベントをそれぞれ試し、
// 失敗はまとめて返す（1つ失敗しても残りは送る）
type NotificationService struct {
	mailer     Mailer
	events     OrderEventPublisher
	ownerEmail string
	shopName   string
	timeout    time.Duration
	logger     logger.Logger
}

// eventsはnil可
func NewNotificationService(
	mailer Mailer,
	events OrderEventPublisher,
	ownerEmail string,
	shopName string,
	timeout time.Duration,
	logger logger.Logger,
) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		events:     events,
		ownerEmail: ownerEmail,
		shopName:   shopName,
		timeout:    timeout,
		logger:     logger,
	}
}

func (s *NotificationService) OwnerSubject() string {
	return "New Order Received - " + s.shopName
}

func (s *NotificationService) CustomerSubject() string {
	return "Your Order Details - " + s.shopName
}

func (s *NotificationService) OrderPlaced(ctx context.Context, r Receipt) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := RenderOrderEmail(r)
	if err != nil {
		return fmt.Errorf("render order email: %w", err)
	}

	var errs []error
	if s.ownerEmail == "" {
		s.logger.Warnf("SHOP_OWNER_EMAIL is not set, skip owner notification")
	} else if err := s.mailer.Send(ctx, s.ownerEmail, s.OwnerSubject(), body); err != nil {
		errs = append(errs, fmt.Errorf("owner mail: %w", err))
	}

	if r.Customer.Email == "" {
		s.logger.Warnf("customer email is empty, skip customer notification")
	} else if err := s.mailer.Send(ctx, r.Customer.Email, s.CustomerSubject(), body); err != nil {
		errs = append(errs, fmt.Errorf("customer mail: %w", err))
	}

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("order event: %w", err))
		}
	}

	return errors.Join(errs...)
}
