package service

import (
	"context"

	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/domain/territory"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// TerritoryConfigService manages per-tenant territory adjustments.
type TerritoryConfigService interface {
	UpsertAdjustment(ctx context.Context, tenantID string, a *territory.Adjustment) (*territory.Adjustment, error)
	ListAdjustments(ctx context.Context, tenantID string) ([]*territory.Adjustment, error)
	DeleteAdjustment(ctx context.Context, tenantID, terr string) error
}

type territoryConfigService struct {
	ServiceParams
}

func NewTerritoryConfigService(params ServiceParams) TerritoryConfigService {
	return &territoryConfigService{ServiceParams: params}
}

func (s *territoryConfigService) UpsertAdjustment(ctx context.Context, tenantID string, a *territory.Adjustment) (*territory.Adjustment, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrInvalidInput)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if a.ID == "" {
		a.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TERRITORY)
	}
	a.BaseModel = types.GetDefaultBaseModel(ctx)
	a.TenantID = tenantID

	if err := s.TerritoryRepo.Upsert(ctx, tenantID, a); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	return a, nil
}

func (s *territoryConfigService) ListAdjustments(ctx context.Context, tenantID string) ([]*territory.Adjustment, error) {
	return s.TerritoryRepo.List(ctx, tenantID)
}

func (s *territoryConfigService) DeleteAdjustment(ctx context.Context, tenantID, terr string) error {
	if err := s.TerritoryRepo.Delete(ctx, tenantID, terr); err != nil {
		return err
	}
	s.invalidate(ctx, tenantID)
	return nil
}

func (s *territoryConfigService) invalidate(ctx context.Context, tenantID string) {
	if s.Cache == nil {
		return
	}
	s.Cache.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixTerritory, tenantID))
	// tier cache keys embed the territory, so territory changes stale them too
	s.Cache.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixTier, tenantID))
}
