package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate records the rate of a currency on a given date.
// One rate per (currency, date).
type ExchangeRate struct {
	Date       time.Time
	CreatedAt  time.Time
	Rate       decimal.Decimal
	ID         uuid.UUID
	CurrencyID uuid.UUID
	Nominal    int
}

// PerUnit returns the rate normalized to a nominal of one.
func (r *ExchangeRate) PerUnit() decimal.Decimal {
	if r.Nominal <= 1 {
		return r.Rate
	}
	return r.Rate.Div(decimal.NewFromInt(int64(r.Nominal)))
}
