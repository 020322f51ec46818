package group

import (
	"github.com/shopspring/decimal"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// CustomerGroup carries a flat discount rate applied after tier and territory
// discounts.
type CustomerGroup struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	DiscountRate decimal.Decimal `db:"discount_rate" json:"discount_rate"`

	types.BaseModel
}

func (g *CustomerGroup) Validate() error {
	if g.Name == "" {
		return ierr.NewError("group name is required").
			WithHint("Group name is required").
			Mark(ierr.ErrValidation)
	}
	if g.DiscountRate.IsNegative() || g.DiscountRate.GreaterThan(decimal.NewFromInt(1)) {
		return ierr.NewError("discount_rate must be between 0 and 1").
			WithHint("Group discount rate must be a fraction between 0 and 1").
			Mark(ierr.ErrValidation)
	}
	return nil
}
