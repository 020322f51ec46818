package tier

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// fixedPriceDominance is the comparable magnitude assigned to fixed_price
// tiers so they always outrank percentage and fixed_amount competitors. When
// two fixed_price tiers match the same quantity, the priority and
// effective-date tie-breaks decide between them. This is a deliberate,
// documented simplification, not a bug.
var fixedPriceDominance = decimal.NewFromInt(1_000_000_000)

// Discount describes how a tier reduces the base amount.
type Discount struct {
	// Kind selects the discount formula
	Kind types.DiscountKind `db:"discount_kind" json:"kind"`

	// Value is a percentage for percentage kind, a per-unit amount for
	// fixed_amount and the replacement unit price for fixed_price
	Value decimal.Decimal `db:"discount_value" json:"value"`
}

// PricingTier is a quantity-scoped discount rule. A tier is scoped to exactly
// one of product or category, and optionally narrowed by customer group and
// territory.
type PricingTier struct {
	ID string `db:"id" json:"id"`

	// LookupKey is a short human-readable reference code, e.g. TR-XYZ12A8Q,
	// stamped at create when the caller does not supply one
	LookupKey string `db:"lookup_key" json:"lookup_key"`

	// Scope: exactly one of ProductID or CategoryID must be set
	ProductID  *string `db:"product_id" json:"product_id,omitempty"`
	CategoryID *string `db:"category_id" json:"category_id,omitempty"`
	GroupID    *string `db:"group_id" json:"group_id,omitempty"`
	Territory  *string `db:"territory" json:"territory,omitempty"`

	// Quantity range [MinQuantity, MaxQuantity). A nil MaxQuantity means the
	// range is unbounded above.
	MinQuantity int64  `db:"min_quantity" json:"min_quantity"`
	MaxQuantity *int64 `db:"max_quantity" json:"max_quantity,omitempty"`

	Discount Discount `json:"discount"`

	// PaymentTermsDiscount is the maximum payment-terms discount fraction this
	// tier allows, between 0 and 0.5
	PaymentTermsDiscount decimal.Decimal `db:"payment_terms_discount" json:"payment_terms_discount"`

	// Priority breaks magnitude ties; lower values are evaluated first
	Priority int `db:"priority" json:"priority"`

	EffectiveDate time.Time  `db:"effective_date" json:"effective_date"`
	ExpiryDate    *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`

	types.BaseModel
}

// Validate checks the tier invariants
func (t *PricingTier) Validate() error {
	if (t.ProductID == nil) == (t.CategoryID == nil) {
		return ierr.NewError("tier scope must be exactly one of product or category").
			WithHint("Provide product_id or category_id, not both").
			Mark(ierr.ErrValidation)
	}
	if t.MinQuantity < 1 {
		return ierr.NewError("min_quantity must be at least 1").
			WithReportableDetails(map[string]any{"min_quantity": t.MinQuantity}).
			WithHint("Minimum quantity must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
		return ierr.NewError("max_quantity must not be below min_quantity").
			WithReportableDetails(map[string]any{
				"min_quantity": t.MinQuantity,
				"max_quantity": *t.MaxQuantity,
			}).
			WithHint("Maximum quantity must not be below minimum quantity").
			Mark(ierr.ErrValidation)
	}
	if !t.Discount.Kind.Validate() {
		return ierr.NewError("invalid discount kind").
			WithHintf("Discount kind %s is not supported", t.Discount.Kind).
			Mark(ierr.ErrValidation)
	}
	if t.Discount.Value.IsNegative() {
		return ierr.NewError("discount value must not be negative").
			WithHint("Discount value must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if t.PaymentTermsDiscount.IsNegative() || t.PaymentTermsDiscount.GreaterThan(decimal.NewFromFloat(0.5)) {
		return ierr.NewError("payment_terms_discount must be between 0 and 0.5").
			WithHint("Payment terms discount must be a fraction between 0 and 0.5").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MatchesQuantity reports whether quantity falls inside [MinQuantity, MaxQuantity)
func (t *PricingTier) MatchesQuantity(quantity int64) bool {
	if quantity < t.MinQuantity {
		return false
	}
	if t.MaxQuantity != nil && quantity >= *t.MaxQuantity {
		return false
	}
	return true
}

// IsEffectiveAt reports whether the tier is active and inside its date window
func (t *PricingTier) IsEffectiveAt(now time.Time) bool {
	if t.Status != types.StatusActive {
		return false
	}
	if now.Before(t.EffectiveDate) {
		return false
	}
	if t.ExpiryDate != nil && !now.Before(*t.ExpiryDate) {
		return false
	}
	return true
}

// ComparableMagnitude returns the discount magnitude used to rank competing
// tiers: the percentage itself for percentage tiers, value times quantity for
// fixed_amount tiers, and a dominant constant for fixed_price tiers.
func (t *PricingTier) ComparableMagnitude(quantity int64) decimal.Decimal {
	switch t.Discount.Kind {
	case types.DiscountKindPercentage:
		return t.Discount.Value
	case types.DiscountKindFixedAmount:
		return t.Discount.Value.Mul(decimal.NewFromInt(quantity))
	case types.DiscountKindFixedPrice:
		return fixedPriceDominance
	default:
		return decimal.Zero
	}
}

// OverlapsRange reports whether two quantity ranges intersect
func (t *PricingTier) OverlapsRange(other *PricingTier) bool {
	if other.MaxQuantity != nil && t.MinQuantity >= *other.MaxQuantity {
		return false
	}
	if t.MaxQuantity != nil && other.MinQuantity >= *t.MaxQuantity {
		return false
	}
	return true
}

// SameScope reports whether two tiers cover the same selector scope
func (t *PricingTier) SameScope(other *PricingTier) bool {
	return equalPtr(t.ProductID, other.ProductID) &&
		equalPtr(t.CategoryID, other.CategoryID) &&
		equalPtr(t.GroupID, other.GroupID) &&
		equalPtr(t.Territory, other.Territory)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
