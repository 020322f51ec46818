package territory

import (
	"github.com/shopspring/decimal"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// Adjustment is a regional multiplier set. A price multiplier below 1 is a
// discount, above 1 a surcharge. One active row per (tenant, territory).
type Adjustment struct {
	ID        string `db:"id" json:"id"`
	Territory string `db:"territory" json:"territory"`

	PriceMultiplier    decimal.Decimal `db:"price_multiplier" json:"price_multiplier"`
	ShippingMultiplier decimal.Decimal `db:"shipping_multiplier" json:"shipping_multiplier"`
	TaxMultiplier      decimal.Decimal `db:"tax_multiplier" json:"tax_multiplier"`

	types.BaseModel
}

// Validate checks that all multipliers are strictly positive
func (a *Adjustment) Validate() error {
	if a.Territory == "" {
		return ierr.NewError("territory is required").
			WithHint("Territory key is required").
			Mark(ierr.ErrValidation)
	}
	for name, m := range map[string]decimal.Decimal{
		"price_multiplier":    a.PriceMultiplier,
		"shipping_multiplier": a.ShippingMultiplier,
		"tax_multiplier":      a.TaxMultiplier,
	} {
		if !m.IsPositive() {
			return ierr.NewError("multiplier must be positive").
				WithReportableDetails(map[string]any{name: m.String()}).
				WithHintf("%s must be greater than zero", name).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
