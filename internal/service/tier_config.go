package service

import (
	"context"

	"github.com/samber/lo"

	"github.com/storegrid/backoffice/internal/cache"
	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// TierConfigService manages pricing tier configuration. Overlap validation
// happens here, at configuration time; the pricing path assumes configuration
// is already valid and just picks the best match.
type TierConfigService interface {
	CreateTier(ctx context.Context, tenantID string, t *tier.PricingTier) (*tier.PricingTier, error)
	GetTier(ctx context.Context, tenantID, id string) (*tier.PricingTier, error)
	ListTiers(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error)
	UpdateTier(ctx context.Context, tenantID string, t *tier.PricingTier) (*tier.PricingTier, error)

	// DeleteTier marks a tier removed. The row stays for audit history.
	DeleteTier(ctx context.Context, tenantID, id string) error
}

type tierConfigService struct {
	ServiceParams
}

func NewTierConfigService(params ServiceParams) TierConfigService {
	return &tierConfigService{ServiceParams: params}
}

func (s *tierConfigService) CreateTier(ctx context.Context, tenantID string, t *tier.PricingTier) (*tier.PricingTier, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrInvalidInput)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if t.ID == "" {
		t.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER)
	}
	if t.LookupKey == "" {
		t.LookupKey = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_TIER)
	}
	t.BaseModel = types.GetDefaultBaseModel(ctx)
	t.TenantID = tenantID

	if err := s.checkOverlap(ctx, tenantID, t); err != nil {
		return nil, err
	}

	if err := s.TierRepo.Create(ctx, tenantID, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	s.Logger.WithContext(ctx).Infow("created pricing tier",
		"tenant_id", tenantID,
		"tier_id", t.ID)

	return t, nil
}

func (s *tierConfigService) GetTier(ctx context.Context, tenantID, id string) (*tier.PricingTier, error) {
	return s.TierRepo.Get(ctx, tenantID, id)
}

func (s *tierConfigService) ListTiers(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error) {
	return s.TierRepo.ListAll(ctx, tenantID, selector)
}

func (s *tierConfigService) UpdateTier(ctx context.Context, tenantID string, t *tier.PricingTier) (*tier.PricingTier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.TierRepo.Get(ctx, tenantID, t.ID)
	if err != nil {
		return nil, err
	}

	// overlap must be re-validated on every mutation within a tenant
	if err := s.checkOverlap(ctx, tenantID, t); err != nil {
		return nil, err
	}

	t.BaseModel = existing.BaseModel
	t.LookupKey = existing.LookupKey
	t.UpdatedBy = types.GetUserID(ctx)
	if err := s.TierRepo.Update(ctx, tenantID, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID)
	return t, nil
}

func (s *tierConfigService) DeleteTier(ctx context.Context, tenantID, id string) error {
	t, err := s.TierRepo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	t.Status = types.StatusRemoved
	t.UpdatedBy = types.GetUserID(ctx)
	if err := s.TierRepo.Update(ctx, tenantID, t); err != nil {
		return err
	}

	s.invalidate(ctx, tenantID)
	s.Logger.WithContext(ctx).Infow("removed pricing tier",
		"tenant_id", tenantID,
		"tier_id", id)
	return nil
}

// checkOverlap flags overlapping quantity ranges for the same scope. Two
// tiers like [1,10) and [5,20) on one scope are a configuration conflict,
// never silently merged.
func (s *tierConfigService) checkOverlap(ctx context.Context, tenantID string, t *tier.PricingTier) error {
	selector := tier.Selector{}
	if t.ProductID != nil {
		selector.ProductID = *t.ProductID
	}
	if t.CategoryID != nil {
		selector.CategoryID = *t.CategoryID
	}

	existing, err := s.TierRepo.ListAll(ctx, tenantID, selector)
	if err != nil {
		return err
	}

	conflicting := lo.Filter(existing, func(other *tier.PricingTier, _ int) bool {
		return other.ID != t.ID &&
			other.Status == types.StatusActive &&
			other.SameScope(t) &&
			other.OverlapsRange(t)
	})

	if len(conflicting) > 0 {
		return ierr.NewError("tier quantity range overlaps an existing tier").
			WithReportableDetails(map[string]any{"tier_id": t.ID}).
			WithConflictDetails(lo.Map(conflicting, func(c *tier.PricingTier, _ int) string { return c.ID })).
			WithHint("Tier quantity ranges for the same scope must not overlap").
			Mark(ierr.ErrConfigConflict)
	}
	return nil
}

func (s *tierConfigService) invalidate(ctx context.Context, tenantID string) {
	if s.Cache == nil {
		return
	}
	s.Cache.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixTier, tenantID))
}
