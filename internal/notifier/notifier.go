// Package notifier turns a positive discount decision into an offer and hands
// it to a delivery channel. Delivery is attempted exactly once per call.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"golang.org/x/time/rate"
)

// OfferMessage is the explanatory text attached to every offer.
const OfferMessage = "You left a few things in your cart. Use this code at checkout to finish your order for less."

var (
	ErrNothingToSend = errors.New("decision does not ask for an offer")
	ErrNoRecipient   = errors.New("offer has no recipient")
)

// Ack confirms a delivery channel accepted the offer.
type Ack struct {
	Channel   string
	MessageID string
}

type Channel interface {
	Name() string
	Send(ctx context.Context, offer domain.Offer) (*Ack, error)
}

type Notifier struct {
	channel Channel
	limiter *rate.Limiter
}

// New builds a notifier. perSecond <= 0 disables rate limiting.
func New(channel Channel, perSecond float64) *Notifier {
	n := &Notifier{channel: channel}
	if perSecond > 0 {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return n
}

// DiscountCode derives the code customers type at checkout.
func DiscountCode(percentage int) string {
	return fmt.Sprintf("COMEBACK%d", percentage)
}

func BuildOffer(email string, decision domain.Decision) domain.Offer {
	return domain.Offer{
		Recipient:  email,
		Code:       DiscountCode(decision.Percentage),
		Percentage: decision.Percentage,
		Message:    OfferMessage,
	}
}

func (n *Notifier) Notify(ctx context.Context, email string, decision domain.Decision) (*Ack, error) {
	if !decision.ShouldSend {
		return nil, ErrNothingToSend
	}
	if email == "" {
		return nil, ErrNoRecipient
	}
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("delivery rate limit: %w", err)
		}
	}

	ack, err := n.channel.Send(ctx, BuildOffer(email, decision))
	if err != nil {
		return nil, fmt.Errorf("failed to deliver offer via %s: %w", n.channel.Name(), err)
	}
	return ack, nil
}
