package testutil

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/group"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// InMemoryGroupStore implements group.Repository
type InMemoryGroupStore struct {
	*InMemoryStore[*group.CustomerGroup]
}

func NewInMemoryGroupStore() *InMemoryGroupStore {
	return &InMemoryGroupStore{
		InMemoryStore: NewInMemoryStore[*group.CustomerGroup](),
	}
}

func groupKey(tenantID, id string) string {
	return tenantID + "/" + id
}

func (s *InMemoryGroupStore) Upsert(ctx context.Context, tenantID string, g *group.CustomerGroup) error {
	if g == nil {
		return ierr.NewError("group cannot be nil").
			WithHint("Customer group data is required").
			Mark(ierr.ErrValidation)
	}
	if g.ID == "" {
		g.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GROUP)
	}
	g.TenantID = tenantID
	return s.InMemoryStore.Upsert(ctx, groupKey(tenantID, g.ID), g)
}

func (s *InMemoryGroupStore) Get(ctx context.Context, tenantID, id string) (*group.CustomerGroup, error) {
	g, err := s.InMemoryStore.Get(ctx, groupKey(tenantID, id))
	if err != nil || g.Status != types.StatusActive {
		return nil, ierr.NewError("customer group not found").
			WithHintf("Customer group %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return g, nil
}

func (s *InMemoryGroupStore) List(ctx context.Context, tenantID string) ([]*group.CustomerGroup, error) {
	return s.InMemoryStore.List(ctx, tenantID,
		func(ctx context.Context, g *group.CustomerGroup, filter interface{}) bool {
			return g != nil && g.TenantID == tenantID && g.Status == types.StatusActive
		},
		func(i, j *group.CustomerGroup) bool {
			return i.ID < j.ID
		})
}

func (s *InMemoryGroupStore) GetDiscountRate(ctx context.Context, tenantID, groupID string) (decimal.Decimal, error) {
	g, err := s.Get(ctx, tenantID, groupID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return g.DiscountRate, nil
}
