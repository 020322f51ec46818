package types

// DiscountKind is the kind of discount a pricing tier applies.
// PERCENTAGE takes a percentage off the base amount, FIXED_AMOUNT takes a
// per-unit amount off, and FIXED_PRICE replaces the unit price outright.
type DiscountKind string

const (
	DiscountKindPercentage  DiscountKind = "percentage"
	DiscountKindFixedAmount DiscountKind = "fixed_amount"
	DiscountKindFixedPrice  DiscountKind = "fixed_price"
)

func (k DiscountKind) Validate() bool {
	switch k {
	case DiscountKindPercentage, DiscountKindFixedAmount, DiscountKindFixedPrice:
		return true
	}
	return false
}
