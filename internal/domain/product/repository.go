package product

import "context"

// Repository is the product catalog read contract used by pricing.
type Repository interface {
	Get(ctx context.Context, tenantID, id string) (*Product, error)
	Upsert(ctx context.Context, tenantID string, p *Product) error
}
