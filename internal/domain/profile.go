package domain

import "github.com/shopspring/decimal"

// Profile is an enriched cart, built per tick and handed to the decision engine.
type Profile struct {
	UserID            string
	InactivitySeconds int64
	TotalValue        decimal.Decimal
	Categories        []string
	Items             []CartItem
}

// ItemCount is the number of units in the cart, summed over quantities.
func (p *Profile) ItemCount() int64 {
	var n int64
	for _, item := range p.Items {
		n += int64(item.Quantity)
	}
	return n
}

// Decision is the discount verdict for one profile.
type Decision struct {
	ShouldSend bool
	Percentage int
	Reason     string
}

// NoDiscount builds a "do not send" decision with the given reason.
func NoDiscount(reason string) Decision {
	return Decision{ShouldSend: false, Percentage: 0, Reason: reason}
}

// Offer is the payload handed to a delivery channel.
type Offer struct {
	Recipient  string `json:"recipient"`
	Code       string `json:"discount_code"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}
