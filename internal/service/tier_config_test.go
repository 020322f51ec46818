package service

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/testutil"
	"github.com/storegrid/backoffice/internal/types"
)

type TierConfigServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TierConfigService
}

func TestTierConfigService(t *testing.T) {
	suite.Run(t, new(TierConfigServiceSuite))
}

func (s *TierConfigServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTierConfigService(ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		TierRepo:      s.GetStores().TierRepo,
		TerritoryRepo: s.GetStores().TerritoryRepo,
		GroupRepo:     s.GetStores().GroupRepo,
		ProductRepo:   s.GetStores().ProductRepo,
		ChannelRepo:   s.GetStores().ChannelRepo,
	})
}

func (s *TierConfigServiceSuite) TestCreateAndGet() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(types.StatusActive, created.Status)

	got, err := s.service.GetTier(s.GetContext(), types.DefaultTenantID, created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)
}

func (s *TierConfigServiceSuite) TestCreateAssignsLookupKey() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, nil))
	s.NoError(err)
	s.NotEmpty(created.LookupKey)
	s.True(strings.HasPrefix(created.LookupKey, types.SHORT_ID_PREFIX_TIER))

	// the reference code survives updates untouched
	created.Priority = 5
	updated, err := s.service.UpdateTier(s.GetContext(), types.DefaultTenantID, created)
	s.NoError(err)
	s.Equal(created.LookupKey, updated.LookupKey)
}

func (s *TierConfigServiceSuite) TestCreateDuplicateIDIsAlreadyExists() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)

	dup := newTestTier(created.ID, types.DiscountKindPercentage, 10, 20, lo.ToPtr(int64(30)))
	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID, dup)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *TierConfigServiceSuite) TestCreateRejectsInvalidTier() {
	t := newTestTier("", types.DiscountKindPercentage, 10, 1, nil)
	t.ProductID = nil // neither product nor category scope

	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID, t)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TierConfigServiceSuite) TestOverlapIsConfigConflict() {
	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)

	// [5, 20) intersects [1, 10) on the same scope
	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 15, 5, lo.ToPtr(int64(20))))
	s.Error(err)
	s.True(ierr.IsConfigConflict(err))
}

func (s *TierConfigServiceSuite) TestAdjacentRangesDoNotConflict() {
	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)

	// [10, 20) touches but does not intersect [1, 10)
	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 15, 10, lo.ToPtr(int64(20))))
	s.NoError(err)
}

func (s *TierConfigServiceSuite) TestDifferentScopesDoNotConflict() {
	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, nil))
	s.NoError(err)

	other := newTestTier("", types.DiscountKindPercentage, 10, 1, nil)
	other.ProductID = lo.ToPtr("prod_2")
	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID, other)
	s.NoError(err)
}

func (s *TierConfigServiceSuite) TestUnboundedRangesOverlap() {
	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, nil))
	s.NoError(err)

	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 20, 500, nil))
	s.Error(err)
	s.True(ierr.IsConfigConflict(err))
}

func (s *TierConfigServiceSuite) TestDeleteIsSoft() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, nil))
	s.NoError(err)

	s.NoError(s.service.DeleteTier(s.GetContext(), types.DefaultTenantID, created.ID))

	_, err = s.service.GetTier(s.GetContext(), types.DefaultTenantID, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TierConfigServiceSuite) TestDeleteRemovedTierIsNotFound() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, nil))
	s.NoError(err)
	s.NoError(s.service.DeleteTier(s.GetContext(), types.DefaultTenantID, created.ID))

	err = s.service.DeleteTier(s.GetContext(), types.DefaultTenantID, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TierConfigServiceSuite) TestDeletedTierFreesItsRange() {
	created, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)
	s.NoError(s.service.DeleteTier(s.GetContext(), types.DefaultTenantID, created.ID))

	_, err = s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 15, 5, lo.ToPtr(int64(20))))
	s.NoError(err, "removed tiers must not block new configuration")
}

func (s *TierConfigServiceSuite) TestUpdateRevalidatesOverlap() {
	_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 10, 1, lo.ToPtr(int64(10))))
	s.NoError(err)

	second, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
		newTestTier("", types.DiscountKindPercentage, 15, 10, lo.ToPtr(int64(20))))
	s.NoError(err)

	// stretching the second tier down into the first must conflict
	second.MinQuantity = 5
	_, err = s.service.UpdateTier(s.GetContext(), types.DefaultTenantID, second)
	s.Error(err)
	s.True(ierr.IsConfigConflict(err))
}

func (s *TierConfigServiceSuite) TestListTiers() {
	for _, minQty := range []int64{1, 10, 100} {
		_, err := s.service.CreateTier(s.GetContext(), types.DefaultTenantID,
			newTestTier("", types.DiscountKindPercentage, 10, minQty, lo.ToPtr(minQty*10-1)))
		s.NoError(err)
	}

	tiers, err := s.service.ListTiers(s.GetContext(), types.DefaultTenantID, tier.Selector{ProductID: "prod_1"})
	s.NoError(err)
	s.Len(tiers, 3)
}
