package dto

import (
	"github.com/shopspring/decimal"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/service"
	"github.com/storegrid/backoffice/internal/types"
	"github.com/storegrid/backoffice/internal/validator"
)

// CalculatePriceRequest represents the request to resolve a final price
type CalculatePriceRequest struct {
	// product_id is the product being priced (required)
	ProductID string `json:"product_id" validate:"required"`

	// category_id is the product's category, used for category-scoped tiers
	CategoryID string `json:"category_id,omitempty"`

	// quantity is the number of units being purchased (required, positive)
	Quantity int64 `json:"quantity" validate:"required,gt=0"`

	// base_price is the per-unit list price (required, positive)
	BasePrice decimal.Decimal `json:"base_price"`

	// group_id is the customer's group, empty for ungrouped customers
	GroupID string `json:"group_id,omitempty"`

	// territory is the customer's territory key, e.g. "eu-west"
	Territory string `json:"territory,omitempty"`

	// payment_terms selects the terms-based discount or surcharge
	PaymentTerms types.PaymentTerms `json:"payment_terms,omitempty"`

	// currency is the three-letter currency code
	Currency string `json:"currency" validate:"required,len=3"`

	// tax_rate is the base tax rate as a fraction, e.g. 0.075
	TaxRate decimal.Decimal `json:"tax_rate"`

	// tax_category selects the tax treatment, e.g. "standard" or "reduced"
	TaxCategory string `json:"tax_category,omitempty"`
}

func (r *CalculatePriceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.BasePrice.IsPositive() {
		return ierr.NewError("base_price must be positive").
			WithHint("Base price must be greater than zero").
			Mark(ierr.ErrInvalidInput)
	}
	if r.PaymentTerms != "" && !r.PaymentTerms.Validate() {
		return ierr.NewError("unknown payment terms").
			WithHintf("Payment terms %s are not supported", r.PaymentTerms).
			Mark(ierr.ErrInvalidInput)
	}
	if r.TaxRate.IsNegative() {
		return ierr.NewError("tax_rate must not be negative").
			WithHint("Tax rate must be zero or positive").
			Mark(ierr.ErrInvalidInput)
	}
	return nil
}

func (r *CalculatePriceRequest) ToPricingInput() service.PricingInput {
	return service.PricingInput{
		ProductID:    r.ProductID,
		CategoryID:   r.CategoryID,
		Quantity:     r.Quantity,
		BasePrice:    r.BasePrice,
		GroupID:      r.GroupID,
		Territory:    r.Territory,
		PaymentTerms: r.PaymentTerms,
		Currency:     r.Currency,
		TaxRate:      r.TaxRate,
		TaxCategory:  r.TaxCategory,
	}
}

// PriceResponse represents the response for price resolution
type PriceResponse struct {
	*service.PriceBreakdown `json:",inline"`
}

// GenerateMatrixRequest represents the request to build a bulk pricing matrix
type GenerateMatrixRequest struct {
	// product_ids is the set of products to include (required)
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`

	GroupID      string             `json:"group_id,omitempty"`
	Territory    string             `json:"territory,omitempty"`
	PaymentTerms types.PaymentTerms `json:"payment_terms,omitempty"`
	Currency     string             `json:"currency" validate:"required,len=3"`
	TaxRate      decimal.Decimal    `json:"tax_rate"`
	TaxCategory  string             `json:"tax_category,omitempty"`
}

func (r *GenerateMatrixRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PaymentTerms != "" && !r.PaymentTerms.Validate() {
		return ierr.NewError("unknown payment terms").
			WithHintf("Payment terms %s are not supported", r.PaymentTerms).
			Mark(ierr.ErrInvalidInput)
	}
	return nil
}

func (r *GenerateMatrixRequest) ToMatrixContext() service.MatrixContext {
	return service.MatrixContext{
		GroupID:      r.GroupID,
		Territory:    r.Territory,
		PaymentTerms: r.PaymentTerms,
		Currency:     r.Currency,
		TaxRate:      r.TaxRate,
		TaxCategory:  r.TaxCategory,
	}
}

// MatrixResponse represents the response for matrix generation
type MatrixResponse struct {
	Items []service.ProductPricingRow `json:"items"`
}
