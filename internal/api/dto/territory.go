package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/types"
	"github.com/storegrid/backoffice/internal/validator"
)

// UpsertTerritoryRequest represents the request to create or replace a
// territory adjustment
type UpsertTerritoryRequest struct {
	// territory is the territory key, e.g. "eu-west" (required)
	Territory string `json:"territory" validate:"required"`

	// price_multiplier scales the pre-tax amount; below 1 is a discount
	PriceMultiplier decimal.Decimal `json:"price_multiplier"`

	// shipping_multiplier scales shipping charges
	ShippingMultiplier decimal.Decimal `json:"shipping_multiplier"`

	// tax_multiplier scales the base tax rate
	TaxMultiplier decimal.Decimal `json:"tax_multiplier"`
}

func (r *UpsertTerritoryRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.toAdjustment(context.Background()).Validate()
}

func (r *UpsertTerritoryRequest) ToAdjustment(ctx context.Context) *territory.Adjustment {
	return r.toAdjustment(ctx)
}

func (r *UpsertTerritoryRequest) toAdjustment(ctx context.Context) *territory.Adjustment {
	return &territory.Adjustment{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TERRITORY),
		Territory:          r.Territory,
		PriceMultiplier:    r.PriceMultiplier,
		ShippingMultiplier: r.ShippingMultiplier,
		TaxMultiplier:      r.TaxMultiplier,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

// TerritoryResponse represents the response for territory operations
type TerritoryResponse struct {
	*territory.Adjustment `json:",inline"`
}

// ListTerritoriesResponse represents the response for listing territory
// adjustments
type ListTerritoriesResponse struct {
	Items []*TerritoryResponse `json:"items"`
}
