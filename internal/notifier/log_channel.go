package notifier

import (
	"context"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogChannel writes offers to the log instead of delivering them.
type LogChannel struct {
	log *zap.Logger
}

func NewLogChannel(log *zap.Logger) *LogChannel {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogChannel{log: log}
}

func (c *LogChannel) Name() string {
	return "log"
}

func (c *LogChannel) Send(_ context.Context, offer domain.Offer) (*Ack, error) {
	id := uuid.NewString()
	c.log.Info("discount offer",
		zap.String("message_id", id),
		zap.String("recipient", offer.Recipient),
		zap.String("code", offer.Code),
		zap.Int("percentage", offer.Percentage))
	return &Ack{Channel: c.Name(), MessageID: id}, nil
}
