package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/domain/territory"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/testutil"
	"github.com/storegrid/backoffice/internal/types"
)

type TerritoryConfigServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TerritoryConfigService
}

func TestTerritoryConfigService(t *testing.T) {
	suite.Run(t, new(TerritoryConfigServiceSuite))
}

func (s *TerritoryConfigServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTerritoryConfigService(ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		TierRepo:      s.GetStores().TierRepo,
		TerritoryRepo: s.GetStores().TerritoryRepo,
	})
}

func newAdjustment(terr string) *territory.Adjustment {
	return &territory.Adjustment{
		Territory:          terr,
		PriceMultiplier:    decimal.NewFromFloat(0.9),
		ShippingMultiplier: decimal.NewFromInt(1),
		TaxMultiplier:      decimal.NewFromInt(1),
	}
}

func (s *TerritoryConfigServiceSuite) TestUpsertAndList() {
	stored, err := s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, newAdjustment("eu-west"))
	s.NoError(err)
	s.NotEmpty(stored.ID)

	_, err = s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, newAdjustment("us-east"))
	s.NoError(err)

	adjustments, err := s.service.ListAdjustments(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Len(adjustments, 2)
}

func (s *TerritoryConfigServiceSuite) TestUpsertReplacesExisting() {
	_, err := s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, newAdjustment("eu-west"))
	s.NoError(err)

	replacement := newAdjustment("eu-west")
	replacement.PriceMultiplier = decimal.NewFromFloat(1.2)
	_, err = s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, replacement)
	s.NoError(err)

	adjustments, err := s.service.ListAdjustments(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Len(adjustments, 1)
	s.True(adjustments[0].PriceMultiplier.Equal(decimal.NewFromFloat(1.2)))
}

func (s *TerritoryConfigServiceSuite) TestUpsertRejectsNonPositiveMultiplier() {
	bad := newAdjustment("eu-west")
	bad.TaxMultiplier = decimal.Zero

	_, err := s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, bad)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TerritoryConfigServiceSuite) TestDelete() {
	_, err := s.service.UpsertAdjustment(s.GetContext(), types.DefaultTenantID, newAdjustment("eu-west"))
	s.NoError(err)

	s.NoError(s.service.DeleteAdjustment(s.GetContext(), types.DefaultTenantID, "eu-west"))

	adjustments, err := s.service.ListAdjustments(s.GetContext(), types.DefaultTenantID)
	s.NoError(err)
	s.Empty(adjustments)
}

func (s *TerritoryConfigServiceSuite) TestDeleteMissingIsNotFound() {
	err := s.service.DeleteAdjustment(s.GetContext(), types.DefaultTenantID, "nowhere")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
