package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/domain/territory"
	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/testutil"
	"github.com/storegrid/backoffice/internal/types"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(s.serviceParams())
}

func (s *PricingServiceSuite) serviceParams() ServiceParams {
	return ServiceParams{
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
}

func (s *PricingServiceSuite) seedTier(t *tier.PricingTier) {
	s.NoError(s.GetStores().TierRepo.Create(s.GetContext(), types.DefaultTenantID, t))
}

func (s *PricingServiceSuite) basicInput() PricingInput {
	return PricingInput{
		ProductID: "prod_1",
		Quantity:  10,
		BasePrice: decimal.NewFromInt(100),
		Currency:  "USD",
	}
}

func (s *PricingServiceSuite) TestWorkedExample() {
	// base 100 × qty 10 = 1000; 20% tier → 800; 7.5% tax → 60; total 860
	s.seedTier(newTestTier("tier_1", types.DiscountKindPercentage, 20, 10, nil))

	input := s.basicInput()
	input.TaxRate = decimal.NewFromFloat(0.075)

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	s.True(b.BaseAmount.Equal(decimal.NewFromInt(1000)))
	s.True(b.QuantityDiscount.Equal(decimal.NewFromInt(200)))
	s.True(b.FinalAmountPreTax.Equal(decimal.NewFromInt(800)))
	s.True(b.TaxAmount.Equal(decimal.NewFromInt(60)), "got %s", b.TaxAmount)
	s.True(b.Total.Equal(decimal.NewFromInt(860)))
	s.True(b.UnitPrice.Equal(decimal.NewFromInt(86)))
	s.Equal("USD", b.Currency)
	s.NotNil(b.AppliedTier)
	s.Equal("tier_1", b.AppliedTier.ID)
}

func (s *PricingServiceSuite) TestNoTierMeansNoDiscount() {
	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, s.basicInput())
	s.NoError(err)
	s.True(b.QuantityDiscount.IsZero())
	s.True(b.Total.Equal(decimal.NewFromInt(1000)))
	s.Nil(b.AppliedTier)
}

func (s *PricingServiceSuite) TestInvalidInput() {
	cases := []struct {
		name   string
		mutate func(*PricingInput)
	}{
		{"missing product", func(in *PricingInput) { in.ProductID = "" }},
		{"zero quantity", func(in *PricingInput) { in.Quantity = 0 }},
		{"negative quantity", func(in *PricingInput) { in.Quantity = -3 }},
		{"zero base price", func(in *PricingInput) { in.BasePrice = decimal.Zero }},
		{"negative base price", func(in *PricingInput) { in.BasePrice = decimal.NewFromInt(-5) }},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			input := s.basicInput()
			tc.mutate(&input)
			_, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
			s.Error(err)
			s.True(ierr.IsInvalidInput(err))
		})
	}

	s.Run("missing tenant", func() {
		_, err := s.service.CalculatePrice(s.GetContext(), "", s.basicInput())
		s.Error(err)
		s.True(ierr.IsInvalidInput(err))
	})
}

func (s *PricingServiceSuite) TestTierStoreFailureIsCollaboratorError() {
	store := s.GetStores().TierRepo.(*testutil.InMemoryTierStore)
	store.Err = ierr.NewError("store down").Mark(ierr.ErrDatabase)

	_, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, s.basicInput())
	s.Error(err)
	s.True(ierr.IsCollaborator(err))
}

func (s *PricingServiceSuite) TestTaxFailureDegradesToZeroTax() {
	s.seedTier(newTestTier("tier_1", types.DiscountKindPercentage, 20, 10, nil))
	s.GetTaxCalculator().Err = ierr.NewError("tax service down").Mark(ierr.ErrHTTPClient)

	input := s.basicInput()
	input.TaxRate = decimal.NewFromFloat(0.075)

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err, "tax unavailability must not fail pricing")
	s.True(b.TaxAmount.IsZero())
	s.True(b.Total.Equal(b.FinalAmountPreTax))
}

func (s *PricingServiceSuite) TestUnknownTerritoryIsNoAdjustment() {
	input := s.basicInput()
	input.Territory = "nowhere"

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	s.True(b.TerritoryDiscount.IsZero())
}

func (s *PricingServiceSuite) TestTerritoryAndTaxMultiplier() {
	s.NoError(s.GetStores().TerritoryRepo.Upsert(s.GetContext(), types.DefaultTenantID, &territory.Adjustment{
		ID:                 "terr_1",
		Territory:          "eu-west",
		PriceMultiplier:    decimal.NewFromFloat(0.9),
		ShippingMultiplier: decimal.NewFromInt(1),
		TaxMultiplier:      decimal.NewFromInt(2),
		BaseModel: types.BaseModel{
			TenantID: types.DefaultTenantID,
			Status:   types.StatusActive,
		},
	}))

	input := s.basicInput()
	input.Territory = "eu-west"
	input.TaxRate = decimal.NewFromFloat(0.05)

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	// 1000 × 10% territory discount = 900 pre tax
	s.True(b.TerritoryDiscount.Equal(decimal.NewFromInt(100)))
	s.True(b.FinalAmountPreTax.Equal(decimal.NewFromInt(900)))
	// tax rate doubles by the territory multiplier: 900 × 0.10 = 90
	s.True(b.TaxAmount.Equal(decimal.NewFromInt(90)), "got %s", b.TaxAmount)
}

func (s *PricingServiceSuite) TestUnknownGroupIsZeroRate() {
	input := s.basicInput()
	input.GroupID = "grp_missing"

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	s.True(b.GroupDiscount.IsZero())
}

func (s *PricingServiceSuite) TestIdempotence() {
	s.seedTier(newTestTier("tier_1", types.DiscountKindPercentage, 15, 1, nil))

	input := s.basicInput()
	first, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	second, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)

	s.True(first.Total.Equal(second.Total))
	s.True(first.FinalAmountPreTax.Equal(second.FinalAmountPreTax))
}

func (s *PricingServiceSuite) TestTotalNeverNegative() {
	// a discount far larger than the base amount
	t := newTestTier("tier_1", types.DiscountKindFixedAmount, 5000, 1, nil)
	s.seedTier(t)

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, s.basicInput())
	s.NoError(err)
	s.False(b.Total.IsNegative())
	s.True(b.FinalAmountPreTax.IsZero())
}

func (s *PricingServiceSuite) TestRoundingOnlyAtTheEnd() {
	// 3 units at 9.99 with a 3.5% discount leaves repeating intermediates
	s.seedTier(newTestTier("tier_1", types.DiscountKindPercentage, 3.5, 1, nil))

	input := PricingInput{
		ProductID: "prod_1",
		Quantity:  3,
		BasePrice: decimal.NewFromFloat(9.99),
		Currency:  "USD",
	}

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, input)
	s.NoError(err)
	// 29.97 × 0.965 = 28.92105 → 28.92
	s.True(b.Total.Equal(decimal.NewFromFloat(28.92)), "got %s", b.Total)
	s.Equal(int32(2), -b.Total.Exponent())
}

func (s *PricingServiceSuite) TestExpiredTierNotApplied() {
	t := newTestTier("tier_1", types.DiscountKindPercentage, 20, 1, nil)
	expiry := time.Now().UTC().Add(-time.Hour)
	t.ExpiryDate = &expiry
	s.seedTier(t)

	b, err := s.service.CalculatePrice(s.GetContext(), types.DefaultTenantID, s.basicInput())
	s.NoError(err)
	s.Nil(b.AppliedTier)
}
