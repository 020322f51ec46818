package testutil

import (
	"context"

	"github.com/storegrid/backoffice/internal/domain/product"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func productKey(tenantID, id string) string {
	return tenantID + "/" + id
}

func (s *InMemoryProductStore) Get(ctx context.Context, tenantID, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, productKey(tenantID, id))
	if err != nil || p.Status != types.StatusActive {
		return nil, ierr.NewError("product not found").
			WithHintf("Product %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProductStore) Upsert(ctx context.Context, tenantID string, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product data is required").
			Mark(ierr.ErrValidation)
	}
	p.TenantID = tenantID
	return s.InMemoryStore.Upsert(ctx, productKey(tenantID, p.ID), p)
}
