package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// offerEvent is the value published for every offer.
type offerEvent struct {
	EventID string `json:"event_id"`
	domain.Offer
	CreatedAt time.Time `json:"created_at"`
}

// KafkaChannel publishes offers for a downstream mailer to pick up.
type KafkaChannel struct {
	writer messageWriter
}

func NewKafkaChannel(topic string, brokers ...string) *KafkaChannel {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaChannel{writer: w}
}

func (c *KafkaChannel) Name() string {
	return "kafka"
}

func (c *KafkaChannel) Send(ctx context.Context, offer domain.Offer) (*Ack, error) {
	event := offerEvent{EventID: uuid.NewString(), Offer: offer, CreatedAt: time.Now().UTC()}
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal offer event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(offer.Recipient), // recipient keeps one user's offers ordered
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("discount_offer")},
		},
	}
	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return nil, err
	}
	return &Ack{Channel: c.Name(), MessageID: event.EventID}, nil
}

func (c *KafkaChannel) Close() error {
	return c.writer.Close()
}
