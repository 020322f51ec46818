package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/types"
	"github.com/storegrid/backoffice/internal/validator"
)

// CreateTierRequest represents the request to create a pricing tier
type CreateTierRequest struct {
	// Scope: exactly one of product_id or category_id must be set
	ProductID  *string `json:"product_id,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
	GroupID    *string `json:"group_id,omitempty"`
	Territory  *string `json:"territory,omitempty"`

	// min_quantity is the inclusive lower bound of the quantity range
	MinQuantity int64 `json:"min_quantity" validate:"required,gte=1"`

	// max_quantity is the exclusive upper bound; omit for an unbounded range
	MaxQuantity *int64 `json:"max_quantity,omitempty"`

	// discount_kind is one of percentage, fixed_amount or fixed_price
	DiscountKind types.DiscountKind `json:"discount_kind" validate:"required"`

	// discount_value is the kind-dependent discount parameter
	DiscountValue decimal.Decimal `json:"discount_value"`

	// payment_terms_discount caps the terms-based discount, 0 to 0.5
	PaymentTermsDiscount decimal.Decimal `json:"payment_terms_discount"`

	// priority breaks ties between equal-magnitude tiers; lower wins
	Priority int `json:"priority"`

	EffectiveDate time.Time  `json:"effective_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

func (r *CreateTierRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.toTier(context.Background()).Validate()
}

func (r *CreateTierRequest) ToTier(ctx context.Context) *tier.PricingTier {
	return r.toTier(ctx)
}

func (r *CreateTierRequest) toTier(ctx context.Context) *tier.PricingTier {
	effective := r.EffectiveDate
	if effective.IsZero() {
		effective = time.Now().UTC()
	}
	return &tier.PricingTier{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		ProductID:  r.ProductID,
		CategoryID: r.CategoryID,
		GroupID:    r.GroupID,
		Territory:  r.Territory,

		MinQuantity: r.MinQuantity,
		MaxQuantity: r.MaxQuantity,
		Discount: tier.Discount{
			Kind:  r.DiscountKind,
			Value: r.DiscountValue,
		},
		PaymentTermsDiscount: r.PaymentTermsDiscount,
		Priority:             r.Priority,
		EffectiveDate:        effective,
		ExpiryDate:           r.ExpiryDate,

		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateTierRequest represents the request to update a pricing tier. Only
// provided fields are changed.
type UpdateTierRequest struct {
	MinQuantity          *int64           `json:"min_quantity,omitempty"`
	MaxQuantity          *int64           `json:"max_quantity,omitempty"`
	DiscountKind         *types.DiscountKind `json:"discount_kind,omitempty"`
	DiscountValue        *decimal.Decimal `json:"discount_value,omitempty"`
	PaymentTermsDiscount *decimal.Decimal `json:"payment_terms_discount,omitempty"`
	Priority             *int             `json:"priority,omitempty"`
	EffectiveDate        *time.Time       `json:"effective_date,omitempty"`
	ExpiryDate           *time.Time       `json:"expiry_date,omitempty"`
}

// Apply copies the provided fields onto an existing tier.
func (r *UpdateTierRequest) Apply(t *tier.PricingTier) {
	if r.MinQuantity != nil {
		t.MinQuantity = *r.MinQuantity
	}
	if r.MaxQuantity != nil {
		t.MaxQuantity = r.MaxQuantity
	}
	if r.DiscountKind != nil {
		t.Discount.Kind = *r.DiscountKind
	}
	if r.DiscountValue != nil {
		t.Discount.Value = *r.DiscountValue
	}
	if r.PaymentTermsDiscount != nil {
		t.PaymentTermsDiscount = *r.PaymentTermsDiscount
	}
	if r.Priority != nil {
		t.Priority = *r.Priority
	}
	if r.EffectiveDate != nil {
		t.EffectiveDate = *r.EffectiveDate
	}
	if r.ExpiryDate != nil {
		t.ExpiryDate = r.ExpiryDate
	}
}

// TierResponse represents the response for tier operations
type TierResponse struct {
	*tier.PricingTier `json:",inline"`
}

// ListTiersResponse represents the response for listing tiers
type ListTiersResponse struct {
	Items []*TierResponse `json:"items"`
}
