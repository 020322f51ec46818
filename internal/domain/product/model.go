package product

import (
	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/types"
)

// Product carries the catalog data pricing needs: a base unit price and the
// category the product belongs to.
type Product struct {
	ID         string          `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	CategoryID string          `db:"category_id" json:"category_id"`
	BasePrice  decimal.Decimal `db:"base_price" json:"base_price"`
	Currency   string          `db:"currency" json:"currency"`

	types.BaseModel
}

// HasBasePrice reports whether the product has a resolvable base price
func (p *Product) HasBasePrice() bool {
	return p.BasePrice.IsPositive()
}
