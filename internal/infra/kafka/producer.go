package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/usecase"
	"storefront/pkg/e"
	"storefront/pkg/logger"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "order.placed"

// 注文確定イベント
type OrderPlacedEvent struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	EventTimestamp int64           `json:"event_timestamp"`
	OrderIDs       []int64         `json:"order_ids"`
	Customer       EventCustomer   `json:"customer"`
	Lines          []EventLine     `json:"lines"`
	Total          decimal.Decimal `json:"total"`
}

type EventCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type EventLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int64           `json:"qty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewProducer(logger logger.Logger, cfg config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, r usecase.Receipt) error {
	event := NewOrderPlacedEvent(r, time.Now())
	value, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(messageKey(event)),
		Value: value,
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func NewOrderPlacedEvent(r usecase.Receipt, now time.Time) OrderPlacedEvent {
	ids := make([]int64, 0, len(r.Orders))
	for _, o := range r.Orders {
		ids = append(ids, o.ID)
	}

	lines := make([]EventLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, EventLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Qty:       l.Qty,
			Subtotal:  l.Subtotal,
		})
	}

	return OrderPlacedEvent{
		EventID:        uuid.NewString(),
		EventType:      EventOrderPlaced,
		EventTimestamp: now.UnixNano(),
		OrderIDs:       ids,
		Customer: EventCustomer{
			Name:    r.Customer.Name,
			Email:   r.Customer.Email,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
		},
		Lines: lines,
		Total: r.Total,
	}
}

// 同じ購入者のイベントは同じパーティションへ
func messageKey(ev OrderPlacedEvent) string {
	if ev.Customer.Email != "" {
		return ev.Customer.Email
	}
	if len(ev.OrderIDs) > 0 {
		return strconv.FormatInt(ev.OrderIDs[0], 10)
	}
	return ev.EventID
}
