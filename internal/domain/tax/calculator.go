package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Result is a tax breakdown for a net amount.
type Result struct {
	Tax   decimal.Decimal `json:"tax"`
	Total decimal.Decimal `json:"total"`
	Rate  decimal.Decimal `json:"rate"`
}

// Calculator is the external tax collaborator contract. It may fail; the
// pricing engine catches the failure and degrades to zero tax rather than
// failing the price calculation.
type Calculator interface {
	Calculate(ctx context.Context, amount decimal.Decimal, rate decimal.Decimal, region, category string) (*Result, error)
}
