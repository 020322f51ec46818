package types

import "github.com/shopspring/decimal"

// PaymentTerms is the agreed payment schedule for a customer. Shorter terms
// earn a discount, longer terms carry a surcharge.
type PaymentTerms string

const (
	PaymentTermsAdvance PaymentTerms = "advance"
	PaymentTermsCOD     PaymentTerms = "cod"
	PaymentTermsNet15   PaymentTerms = "net_15"
	PaymentTermsNet30   PaymentTerms = "net_30"
	PaymentTermsNet60   PaymentTerms = "net_60"
	PaymentTermsNet90   PaymentTerms = "net_90"
)

// paymentTermsRates maps payment terms to the discount fraction applied to the
// running balance. Negative rates are surcharges added back to the balance.
var paymentTermsRates = map[PaymentTerms]decimal.Decimal{
	PaymentTermsAdvance: decimal.NewFromFloat(0.05),
	PaymentTermsCOD:     decimal.NewFromFloat(0.02),
	PaymentTermsNet15:   decimal.NewFromFloat(0.01),
	PaymentTermsNet30:   decimal.Zero,
	PaymentTermsNet60:   decimal.NewFromFloat(-0.01),
	PaymentTermsNet90:   decimal.NewFromFloat(-0.02),
}

// DiscountRate returns the discount fraction for the payment terms.
// Unknown terms get a zero rate, not an error.
func (p PaymentTerms) DiscountRate() decimal.Decimal {
	if rate, ok := paymentTermsRates[p]; ok {
		return rate
	}
	return decimal.Zero
}

func (p PaymentTerms) Validate() bool {
	_, ok := paymentTermsRates[p]
	return ok
}
