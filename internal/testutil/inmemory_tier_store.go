package testutil

import (
	"context"
	"time"

	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// InMemoryTierStore implements tier.Repository
type InMemoryTierStore struct {
	*InMemoryStore[*tier.PricingTier]

	// Err, when set, is returned by every read. Tests use it to simulate an
	// unavailable tier store.
	Err error
}

func NewInMemoryTierStore() *InMemoryTierStore {
	return &InMemoryTierStore{
		InMemoryStore: NewInMemoryStore[*tier.PricingTier](),
	}
}

type tierFilter struct {
	tenantID      string
	selector      tier.Selector
	effectiveOnly bool
	now           time.Time
}

func tierFilterFn(ctx context.Context, t *tier.PricingTier, filter interface{}) bool {
	if t == nil {
		return false
	}
	f, ok := filter.(tierFilter)
	if !ok {
		return true
	}

	if t.TenantID != f.tenantID {
		return false
	}

	// Scope anchor: the row's product or category must match the selector.
	// Narrowing dimensions apply only when the row sets them; a group-less or
	// territory-less tier matches every group and territory.
	if f.selector.ProductID != "" || f.selector.CategoryID != "" {
		productMatch := f.selector.ProductID != "" && t.ProductID != nil && *t.ProductID == f.selector.ProductID
		categoryMatch := f.selector.CategoryID != "" && t.CategoryID != nil && *t.CategoryID == f.selector.CategoryID
		if !productMatch && !categoryMatch {
			return false
		}
	}

	if t.GroupID != nil && *t.GroupID != f.selector.GroupID {
		return false
	}
	if t.Territory != nil && *t.Territory != f.selector.Territory {
		return false
	}

	if f.effectiveOnly {
		if !t.IsEffectiveAt(f.now) {
			return false
		}
	} else if t.Status == types.StatusRemoved {
		return false
	}
	return true
}

func tierSortFn(i, j *tier.PricingTier) bool {
	if i.Priority != j.Priority {
		return i.Priority < j.Priority
	}
	return i.EffectiveDate.Before(j.EffectiveDate)
}

func (s *InMemoryTierStore) Create(ctx context.Context, tenantID string, t *tier.PricingTier) error {
	if t == nil {
		return ierr.NewError("tier cannot be nil").
			WithHint("Tier data is required").
			Mark(ierr.ErrValidation)
	}
	t.TenantID = tenantID
	if err := s.InMemoryStore.Create(ctx, t.ID, t); err != nil {
		return ierr.WithError(err).
			WithHint("A tier with this identifier already exists").
			WithReportableDetails(map[string]any{"tier_id": t.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTierStore) Get(ctx context.Context, tenantID, id string) (*tier.PricingTier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || t.TenantID != tenantID || t.Status == types.StatusRemoved {
		return nil, ierr.NewError("tier not found").
			WithHintf("Tier %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

func (s *InMemoryTierStore) List(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.InMemoryStore.List(ctx, tierFilter{
		tenantID:      tenantID,
		selector:      selector,
		effectiveOnly: true,
		now:           time.Now().UTC(),
	}, tierFilterFn, tierSortFn)
}

func (s *InMemoryTierStore) ListAll(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.InMemoryStore.List(ctx, tierFilter{
		tenantID: tenantID,
		selector: selector,
	}, tierFilterFn, tierSortFn)
}

func (s *InMemoryTierStore) Update(ctx context.Context, tenantID string, t *tier.PricingTier) error {
	if s.Err != nil {
		return s.Err
	}
	// raw lookup, no status filter: soft delete writes the removed status
	// through this path, matching the postgres repository's update contract
	existing, err := s.InMemoryStore.Get(ctx, t.ID)
	if err != nil || existing.TenantID != tenantID {
		return ierr.NewError("tier not found").
			WithHintf("Tier %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}
	t.TenantID = tenantID
	return s.InMemoryStore.Update(ctx, t.ID, t)
}

func (s *InMemoryTierStore) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	return s.InMemoryStore.Delete(ctx, id)
}
