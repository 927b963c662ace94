package notifier

import (
	"context"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	pb "github.com/fjod/go_cart/cart-recovery-service/pkg/proto"
)

// GRPCChannel delivers offers through the email service.
type GRPCChannel struct {
	emailClient pb.EmailServiceClient
	timeout     time.Duration
}

func NewGRPCChannel(emailClient pb.EmailServiceClient, timeout time.Duration) *GRPCChannel {
	return &GRPCChannel{emailClient: emailClient, timeout: timeout}
}

func (c *GRPCChannel) Name() string {
	return "grpc"
}

func (c *GRPCChannel) Send(ctx context.Context, offer domain.Offer) (*Ack, error) {
	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.emailClient.SendDiscountOffer(sendCtx, &pb.SendDiscountOfferRequest{
		Email:        offer.Recipient,
		DiscountCode: offer.Code,
		Percentage:   int32(offer.Percentage),
		Message:      offer.Message,
	})
	if err != nil {
		return nil, err
	}
	return &Ack{Channel: c.Name(), MessageID: resp.MessageId}, nil
}
