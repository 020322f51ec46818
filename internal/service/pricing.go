package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// currencyPrecision is the rounding applied once, at the very end of a
// calculation. Intermediate stages keep full precision.
const currencyPrecision = 2

// PricingInput is the customer context for one price resolution.
type PricingInput struct {
	ProductID    string
	CategoryID   string
	Quantity     int64
	BasePrice    decimal.Decimal
	GroupID      string
	Territory    string
	PaymentTerms types.PaymentTerms
	Currency     string
	TaxRate      decimal.Decimal
	TaxCategory  string
}

// PricingService resolves a final price for a quantity and customer context.
// The tenant is an explicit argument on every entry point so that resolving a
// price for the wrong tenant is structurally impossible.
type PricingService interface {
	CalculatePrice(ctx context.Context, tenantID string, input PricingInput) (*PriceBreakdown, error)
}

type pricingService struct {
	ServiceParams
}

func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{ServiceParams: params}
}

func (s *pricingService) CalculatePrice(ctx context.Context, tenantID string, input PricingInput) (*PriceBreakdown, error) {
	if err := validatePricingInput(tenantID, input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	baseAmount := input.BasePrice.Mul(decimal.NewFromInt(input.Quantity))

	tiers, err := s.loadTiers(ctx, tenantID, input)
	if err != nil {
		// pricing cannot be trusted without tier data
		return nil, ierr.WithError(err).
			WithHint("Unable to load pricing tiers").
			Mark(ierr.ErrCollaborator)
	}

	adjustment, err := s.loadTerritoryAdjustment(ctx, tenantID, input.Territory)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to load territory adjustment").
			Mark(ierr.ErrCollaborator)
	}

	groupRate := decimal.Zero
	if input.GroupID != "" {
		groupRate, err = s.GroupRepo.GetDiscountRate(ctx, tenantID, input.GroupID)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Unable to load group discount rate").
				Mark(ierr.ErrCollaborator)
		}
	}

	selected := SelectTier(tiers, input.Quantity, now)

	breakdown := Compose(ComposeInput{
		BaseAmount:          baseAmount,
		Quantity:            input.Quantity,
		Tier:                selected,
		TerritoryAdjustment: adjustment,
		GroupDiscountRate:   groupRate,
		PaymentTerms:        input.PaymentTerms,
	})
	breakdown.Currency = input.Currency

	s.applyTax(ctx, tenantID, input, adjustment, breakdown)

	breakdown.Total = breakdown.FinalAmountPreTax.Add(breakdown.TaxAmount)
	s.round(breakdown, input.Quantity)

	return breakdown, nil
}

// applyTax asks the tax collaborator for the tax on the pre-tax amount. A tax
// failure degrades to zero tax with a logged warning; pricing never hard-fails
// solely because tax lookup is unavailable.
func (s *pricingService) applyTax(
	ctx context.Context,
	tenantID string,
	input PricingInput,
	adjustment *territory.Adjustment,
	breakdown *PriceBreakdown,
) {
	if s.TaxCalculator == nil || input.TaxRate.IsZero() {
		breakdown.TaxAmount = decimal.Zero
		return
	}

	rate := input.TaxRate
	if adjustment != nil {
		rate = rate.Mul(adjustment.TaxMultiplier)
	}

	result, err := s.TaxCalculator.Calculate(ctx, breakdown.FinalAmountPreTax, rate, input.Territory, input.TaxCategory)
	if err != nil {
		s.Logger.WithContext(ctx).Warnw("tax calculation failed, degrading to zero tax",
			"tenant_id", tenantID,
			"product_id", input.ProductID,
			"error", err)
		breakdown.TaxAmount = decimal.Zero
		return
	}

	breakdown.TaxAmount = result.Tax
}

func (s *pricingService) loadTiers(ctx context.Context, tenantID string, input PricingInput) ([]*tier.PricingTier, error) {
	key := cache.GenerateKey(cache.PrefixTier, tenantID, input.ProductID, input.CategoryID, input.GroupID, input.Territory)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if tiers, ok := cached.([]*tier.PricingTier); ok {
				return tiers, nil
			}
		}
	}

	tiers, err := s.TierRepo.List(ctx, tenantID, tier.Selector{
		ProductID:  input.ProductID,
		CategoryID: input.CategoryID,
		GroupID:    input.GroupID,
		Territory:  input.Territory,
	})
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, tiers, cache.DefaultExpiration)
	}
	return tiers, nil
}

// loadTerritoryAdjustment treats an absent adjustment row as "no adjustment";
// only real store failures propagate.
func (s *pricingService) loadTerritoryAdjustment(ctx context.Context, tenantID, terr string) (*territory.Adjustment, error) {
	if terr == "" {
		return nil, nil
	}

	adjustment, err := s.TerritoryRepo.GetAdjustment(ctx, tenantID, terr)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return adjustment, nil
}

func (s *pricingService) round(breakdown *PriceBreakdown, quantity int64) {
	breakdown.BaseAmount = breakdown.BaseAmount.Round(currencyPrecision)
	breakdown.QuantityDiscount = breakdown.QuantityDiscount.Round(currencyPrecision)
	breakdown.TerritoryDiscount = breakdown.TerritoryDiscount.Round(currencyPrecision)
	breakdown.GroupDiscount = breakdown.GroupDiscount.Round(currencyPrecision)
	breakdown.PaymentDiscount = breakdown.PaymentDiscount.Round(currencyPrecision)
	breakdown.FinalAmountPreTax = breakdown.FinalAmountPreTax.Round(currencyPrecision)
	breakdown.TaxAmount = breakdown.TaxAmount.Round(currencyPrecision)
	breakdown.Total = breakdown.Total.Round(currencyPrecision)
	breakdown.UnitPrice = breakdown.Total.Div(decimal.NewFromInt(quantity)).Round(currencyPrecision)
}

func validatePricingInput(tenantID string, input PricingInput) error {
	if tenantID == "" {
		return ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrInvalidInput)
	}
	if input.ProductID == "" {
		return ierr.NewError("product id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrInvalidInput)
	}
	if input.Quantity <= 0 {
		return ierr.NewError("quantity must be positive").
			WithReportableDetails(map[string]any{"quantity": input.Quantity}).
			WithHint("Quantity must be at least 1").
			Mark(ierr.ErrInvalidInput)
	}
	if !input.BasePrice.IsPositive() {
		return ierr.NewError("base price must be positive").
			WithReportableDetails(map[string]any{"base_price": input.BasePrice.String()}).
			WithHint("Base price must be greater than zero").
			Mark(ierr.ErrInvalidInput)
	}
	return nil
}
