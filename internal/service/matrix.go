package service

import (
	"context"

	"github.com/shopspring/decimal"

	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// MatrixBreakpoints is the fixed quantity ladder a pricing matrix is built on.
var MatrixBreakpoints = []int64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// ProductPricingRow is one row of a bulk pricing matrix.
type ProductPricingRow struct {
	ProductID       string          `json:"product_id"`
	MinQuantity     int64           `json:"min_quantity"`
	MaxQuantity     *int64          `json:"max_quantity,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Savings         decimal.Decimal `json:"savings"`
}

// MatrixContext is the customer context a matrix is generated for.
type MatrixContext struct {
	GroupID      string
	Territory    string
	PaymentTerms types.PaymentTerms
	Currency     string
	TaxRate      decimal.Decimal
	TaxCategory  string
}

// MatrixService builds per-product pricing tables across the breakpoint
// ladder. Products without a resolvable base price are skipped; a partial
// matrix is a valid result, not an error.
type MatrixService interface {
	GenerateMatrix(ctx context.Context, tenantID string, productIDs []string, mc MatrixContext) ([]ProductPricingRow, error)
}

type matrixService struct {
	ServiceParams
	pricing PricingService
}

func NewMatrixService(params ServiceParams, pricing PricingService) MatrixService {
	return &matrixService{ServiceParams: params, pricing: pricing}
}

func (s *matrixService) GenerateMatrix(ctx context.Context, tenantID string, productIDs []string, mc MatrixContext) ([]ProductPricingRow, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrInvalidInput)
	}

	rows := make([]ProductPricingRow, 0, len(productIDs)*len(MatrixBreakpoints))

	for _, productID := range productIDs {
		p, err := s.ProductRepo.Get(ctx, tenantID, productID)
		if err != nil || !p.HasBasePrice() {
			s.Logger.WithContext(ctx).Debugw("skipping product without resolvable base price",
				"tenant_id", tenantID,
				"product_id", productID)
			continue
		}

		productRows, err := s.generateProductRows(ctx, tenantID, p.ID, p.CategoryID, p.BasePrice, mc)
		if err != nil {
			// one product's failure never aborts the batch
			s.Logger.WithContext(ctx).Warnw("failed to generate pricing rows for product",
				"tenant_id", tenantID,
				"product_id", productID,
				"error", err)
			continue
		}
		rows = append(rows, productRows...)
	}

	return rows, nil
}

func (s *matrixService) generateProductRows(
	ctx context.Context,
	tenantID, productID, categoryID string,
	basePrice decimal.Decimal,
	mc MatrixContext,
) ([]ProductPricingRow, error) {
	rows := make([]ProductPricingRow, 0, len(MatrixBreakpoints))

	for i, quantity := range MatrixBreakpoints {
		breakdown, err := s.pricing.CalculatePrice(ctx, tenantID, PricingInput{
			ProductID:    productID,
			CategoryID:   categoryID,
			Quantity:     quantity,
			BasePrice:    basePrice,
			GroupID:      mc.GroupID,
			Territory:    mc.Territory,
			PaymentTerms: mc.PaymentTerms,
			Currency:     mc.Currency,
			TaxRate:      mc.TaxRate,
			TaxCategory:  mc.TaxCategory,
		})
		if err != nil {
			return nil, err
		}

		var maxQuantity *int64
		if i+1 < len(MatrixBreakpoints) {
			next := MatrixBreakpoints[i+1] - 1
			maxQuantity = &next
		}

		savings := breakdown.BaseAmount.Sub(breakdown.FinalAmountPreTax)
		discountPercent := decimal.Zero
		if breakdown.BaseAmount.IsPositive() {
			discountPercent = savings.Div(breakdown.BaseAmount).Mul(decimal.NewFromInt(100)).Round(currencyPrecision)
		}

		rows = append(rows, ProductPricingRow{
			ProductID:       productID,
			MinQuantity:     quantity,
			MaxQuantity:     maxQuantity,
			UnitPrice:       breakdown.UnitPrice,
			DiscountPercent: discountPercent,
			Savings:         savings.Round(currencyPrecision),
		})
	}

	return rows, nil
}
