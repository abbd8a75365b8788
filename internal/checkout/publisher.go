package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/segmentio/kafka-go"
)

// OrderPlacedEvent is published when a shopper hands an order off to their
// mail or WhatsApp client. Downstream consumers are optional; delivery is
// fire-and-forget.
type OrderPlacedEvent struct {
	OrderID     string            `json:"order_id"`
	SessionID   string            `json:"session_id"`
	Email       string            `json:"email"`
	Method      string            `json:"method"` // "email" | "whatsapp"
	Items       []domain.LineItem `json:"items"`
	TotalAmount float64           `json:"total_amount"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-placed",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// Publish sends the event. A nil publisher (no brokers configured) is a
// silent no-op.
func (p *Publisher) Publish(ctx context.Context, event OrderPlacedEvent) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
