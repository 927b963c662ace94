package domain

import "github.com/shopspring/decimal"

// nanosPerUnit is the scale of Money.Nanos.
const nanosPerUnit = 9

// Money is a fixed-point amount: whole units plus nano sub-units.
type Money struct {
	CurrencyCode string `json:"currency_code,omitempty"`
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
}

// ToDecimal returns units + nanos/1e9 without rounding. A nil amount is zero.
func ToDecimal(m *Money) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(m.Units).Add(decimal.New(int64(m.Nanos), -nanosPerUnit))
}
