package service

import (
	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/types"
)

// PriceBreakdown is the immutable result of one price resolution. Each stage
// delta is recorded for audit even though stages run sequentially against a
// shrinking balance, not independently against the base.
type PriceBreakdown struct {
	BaseAmount        decimal.Decimal   `json:"base_amount"`
	QuantityDiscount  decimal.Decimal   `json:"quantity_discount"`
	TerritoryDiscount decimal.Decimal   `json:"territory_discount"`
	GroupDiscount     decimal.Decimal   `json:"group_discount"`
	PaymentDiscount   decimal.Decimal   `json:"payment_discount"`
	FinalAmountPreTax decimal.Decimal   `json:"final_amount_pre_tax"`
	TaxAmount         decimal.Decimal   `json:"tax_amount"`
	Total             decimal.Decimal   `json:"total"`
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	Currency          string            `json:"currency"`
	AppliedTier       *tier.PricingTier `json:"applied_tier,omitempty"`
}

// ComposeInput carries everything the composer needs; the caller resolves all
// adjustment factors before composing, so composition itself does no I/O.
type ComposeInput struct {
	BaseAmount          decimal.Decimal
	Quantity            int64
	Tier                *tier.PricingTier
	TerritoryAdjustment *territory.Adjustment
	GroupDiscountRate   decimal.Decimal
	PaymentTerms        types.PaymentTerms
}

// discountStage is one pure step of the composition. It returns the stage's
// delta for the current balance; the fold applies and clamps it.
type discountStage struct {
	name  string
	delta func(balance decimal.Decimal) decimal.Decimal
}

// Compose applies the four discount stages in their fixed order: quantity
// tier, territory, group, payment terms. The order is not configurable
// because each stage's output balance is the next stage's input. Every stage
// clamps the balance at zero before the next runs, so no intermediate value
// ever goes negative.
//
// The result is not rounded; rounding to currency precision is the engine's
// final step so intermediate precision never compounds.
func Compose(input ComposeInput) *PriceBreakdown {
	breakdown := &PriceBreakdown{
		BaseAmount:  input.BaseAmount,
		AppliedTier: input.Tier,
	}

	stages := []discountStage{
		{
			name: "quantity_tier",
			delta: func(balance decimal.Decimal) decimal.Decimal {
				return tierDelta(input.Tier, input.BaseAmount, input.Quantity)
			},
		},
		{
			name: "territory",
			delta: func(balance decimal.Decimal) decimal.Decimal {
				if input.TerritoryAdjustment == nil {
					return decimal.Zero
				}
				// multiplier < 1 yields a discount, > 1 a surcharge
				one := decimal.NewFromInt(1)
				return balance.Mul(one.Sub(input.TerritoryAdjustment.PriceMultiplier))
			},
		},
		{
			name: "group",
			delta: func(balance decimal.Decimal) decimal.Decimal {
				return balance.Mul(input.GroupDiscountRate)
			},
		},
		{
			name: "payment_terms",
			delta: func(balance decimal.Decimal) decimal.Decimal {
				// the rate's sign encodes discount vs surcharge; the magnitude
				// always applies to the running balance, not the base
				return balance.Mul(input.PaymentTerms.DiscountRate())
			},
		},
	}

	balance := input.BaseAmount
	deltas := make([]decimal.Decimal, len(stages))
	for i, stage := range stages {
		d := stage.delta(balance)
		deltas[i] = d
		balance = balance.Sub(d)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
	}

	breakdown.QuantityDiscount = deltas[0]
	breakdown.TerritoryDiscount = deltas[1]
	breakdown.GroupDiscount = deltas[2]
	breakdown.PaymentDiscount = deltas[3]
	breakdown.FinalAmountPreTax = balance

	return breakdown
}

// tierDelta computes the quantity-tier stage delta against the base amount.
func tierDelta(t *tier.PricingTier, baseAmount decimal.Decimal, quantity int64) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}

	qty := decimal.NewFromInt(quantity)
	switch t.Discount.Kind {
	case types.DiscountKindPercentage:
		return baseAmount.Mul(t.Discount.Value).Div(decimal.NewFromInt(100))
	case types.DiscountKindFixedAmount:
		return t.Discount.Value.Mul(qty)
	case types.DiscountKindFixedPrice:
		// the discount is whatever it takes to land on value × quantity
		return baseAmount.Sub(t.Discount.Value.Mul(qty))
	default:
		return decimal.Zero
	}
}
