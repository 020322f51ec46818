package testutil

import (
	"context"

	"github.com/storegrid/backoffice/internal/domain/territory"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// InMemoryTerritoryStore implements territory.Repository
type InMemoryTerritoryStore struct {
	*InMemoryStore[*territory.Adjustment]
}

func NewInMemoryTerritoryStore() *InMemoryTerritoryStore {
	return &InMemoryTerritoryStore{
		InMemoryStore: NewInMemoryStore[*territory.Adjustment](),
	}
}

func territoryKey(tenantID, code string) string {
	return tenantID + "/" + code
}

func (s *InMemoryTerritoryStore) Upsert(ctx context.Context, tenantID string, a *territory.Adjustment) error {
	if a == nil {
		return ierr.NewError("adjustment cannot be nil").
			WithHint("Territory adjustment data is required").
			Mark(ierr.ErrValidation)
	}
	a.TenantID = tenantID
	return s.InMemoryStore.Upsert(ctx, territoryKey(tenantID, a.Territory), a)
}

func (s *InMemoryTerritoryStore) GetAdjustment(ctx context.Context, tenantID, code string) (*territory.Adjustment, error) {
	a, err := s.InMemoryStore.Get(ctx, territoryKey(tenantID, code))
	if err != nil || a.Status != types.StatusActive {
		return nil, ierr.NewError("territory adjustment not found").
			WithHintf("No adjustment configured for territory %s", code).
			Mark(ierr.ErrNotFound)
	}
	return a, nil
}

func (s *InMemoryTerritoryStore) List(ctx context.Context, tenantID string) ([]*territory.Adjustment, error) {
	return s.InMemoryStore.List(ctx, tenantID,
		func(ctx context.Context, a *territory.Adjustment, filter interface{}) bool {
			return a != nil && a.TenantID == tenantID && a.Status == types.StatusActive
		},
		func(i, j *territory.Adjustment) bool {
			return i.Territory < j.Territory
		})
}

func (s *InMemoryTerritoryStore) Delete(ctx context.Context, tenantID, code string) error {
	a, err := s.GetAdjustment(ctx, tenantID, code)
	if err != nil {
		return err
	}
	a.Status = types.StatusRemoved
	return s.InMemoryStore.Update(ctx, territoryKey(tenantID, code), a)
}
