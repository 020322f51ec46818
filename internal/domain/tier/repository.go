package tier

import "context"

// Selector narrows a tier lookup. Zero-value fields are not filtered on.
type Selector struct {
	ProductID  string
	CategoryID string
	GroupID    string
	Territory  string
}

// Repository is the tier store contract. Every call is tenant scoped through
// an explicit tenantID argument; implementations must never derive the tenant
// from ambient state.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *PricingTier) error
	Get(ctx context.Context, tenantID, id string) (*PricingTier, error)

	// List returns only active, date-valid tiers matching the selector. The
	// resolver relies on this contract and does not re-check unrelated rows.
	List(ctx context.Context, tenantID string, selector Selector) ([]*PricingTier, error)

	// ListAll returns every non-removed tier for the scope, regardless of date
	// window. Used by configuration validation.
	ListAll(ctx context.Context, tenantID string, selector Selector) ([]*PricingTier, error)

	Update(ctx context.Context, tenantID string, t *PricingTier) error
	Delete(ctx context.Context, tenantID, id string) error
}
