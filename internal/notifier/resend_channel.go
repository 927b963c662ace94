package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/resendlabs/resend-go"
)

// sendFunc returns the provider message id.
type sendFunc func(params *resend.SendEmailRequest) (string, error)

// ResendChannel delivers offers as transactional email through Resend.
type ResendChannel struct {
	send sendFunc
	from string
}

func NewResendChannel(apiKey, from string) *ResendChannel {
	client := resend.NewClient(apiKey)
	return &ResendChannel{
		send: func(params *resend.SendEmailRequest) (string, error) {
			resp, err := client.Emails.Send(params)
			if err != nil {
				return "", err
			}
			return resp.Id, nil
		},
		from: from,
	}
}

func (c *ResendChannel) Name() string {
	return "resend"
}

// Send ignores ctx: the Resend client has no context-aware send.
func (c *ResendChannel) Send(_ context.Context, offer domain.Offer) (*Ack, error) {
	id, err := c.send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{offer.Recipient},
		Subject: fmt.Sprintf("%d%% off the items in your cart", offer.Percentage),
		Html:    offerHTML(offer),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send offer email via Resend: %w", err)
	}
	return &Ack{Channel: c.Name(), MessageID: id}, nil
}

func offerHTML(offer domain.Offer) string {
	return fmt.Sprintf("<p>%s</p><p>Your code: <strong>%s</strong> (%d%% off)</p>",
		html.EscapeString(offer.Message), html.EscapeString(offer.Code), offer.Percentage)
}
