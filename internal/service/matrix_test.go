package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/domain/product"
	"github.com/storegrid/backoffice/internal/testutil"
	"github.com/storegrid/backoffice/internal/types"
)

type MatrixServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MatrixService
}

func TestMatrixService(t *testing.T) {
	suite.Run(t, new(MatrixServiceSuite))
}

func (s *MatrixServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		TierRepo:      s.GetStores().TierRepo,
		TerritoryRepo: s.GetStores().TerritoryRepo,
		GroupRepo:     s.GetStores().GroupRepo,
		ProductRepo:   s.GetStores().ProductRepo,
		ChannelRepo:   s.GetStores().ChannelRepo,
		TaxCalculator: s.GetTaxCalculator(),
		Registry:      s.GetRegistry(),
		Signals:       s.GetSignals(),
	}
	s.service = NewMatrixService(params, NewPricingService(params))
}

func (s *MatrixServiceSuite) seedProduct(id string, basePrice decimal.Decimal) {
	s.NoError(s.GetStores().ProductRepo.Upsert(s.GetContext(), types.DefaultTenantID, &product.Product{
		ID:        id,
		Name:      "Product " + id,
		BasePrice: basePrice,
		Currency:  "USD",
		BaseModel: types.BaseModel{
			TenantID: types.DefaultTenantID,
			Status:   types.StatusActive,
		},
	}))
}

func (s *MatrixServiceSuite) TestLadderShape() {
	s.seedProduct("prod_1", decimal.NewFromInt(100))

	rows, err := s.service.GenerateMatrix(s.GetContext(), types.DefaultTenantID, []string{"prod_1"}, MatrixContext{Currency: "USD"})
	s.NoError(err)
	s.Len(rows, len(MatrixBreakpoints))

	for i, row := range rows {
		s.Equal("prod_1", row.ProductID)
		s.Equal(MatrixBreakpoints[i], row.MinQuantity)
		if i+1 < len(MatrixBreakpoints) {
			s.NotNil(row.MaxQuantity)
			s.Equal(MatrixBreakpoints[i+1]-1, *row.MaxQuantity)
		} else {
			s.Nil(row.MaxQuantity, "last row is unbounded")
		}
	}
}

func (s *MatrixServiceSuite) TestTieredRowsShowSavings() {
	s.seedProduct("prod_1", decimal.NewFromInt(100))

	// 20% off at 100 units and above
	t := newTestTier("tier_1", types.DiscountKindPercentage, 20, 100, nil)
	s.NoError(s.GetStores().TierRepo.Create(s.GetContext(), types.DefaultTenantID, t))

	rows, err := s.service.GenerateMatrix(s.GetContext(), types.DefaultTenantID, []string{"prod_1"}, MatrixContext{Currency: "USD"})
	s.NoError(err)
	s.Len(rows, len(MatrixBreakpoints))

	for _, row := range rows {
		if row.MinQuantity >= 100 {
			s.True(row.UnitPrice.Equal(decimal.NewFromInt(80)), "qty %d: got %s", row.MinQuantity, row.UnitPrice)
			s.True(row.DiscountPercent.Equal(decimal.NewFromInt(20)))
			s.True(row.Savings.IsPositive())
		} else {
			s.True(row.UnitPrice.Equal(decimal.NewFromInt(100)))
			s.True(row.Savings.IsZero())
		}
	}
}

func (s *MatrixServiceSuite) TestSkipsProductsWithoutBasePrice() {
	s.seedProduct("prod_priced", decimal.NewFromInt(50))
	s.seedProduct("prod_free", decimal.Zero)

	rows, err := s.service.GenerateMatrix(s.GetContext(), types.DefaultTenantID,
		[]string{"prod_priced", "prod_free", "prod_missing"}, MatrixContext{Currency: "USD"})
	s.NoError(err)
	s.Len(rows, len(MatrixBreakpoints))
	for _, row := range rows {
		s.Equal("prod_priced", row.ProductID)
	}
}

func (s *MatrixServiceSuite) TestEmptyProductListIsEmptyMatrix() {
	rows, err := s.service.GenerateMatrix(s.GetContext(), types.DefaultTenantID, nil, MatrixContext{Currency: "USD"})
	s.NoError(err)
	s.Empty(rows)
}
