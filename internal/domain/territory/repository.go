package territory

import "context"

// Repository is the territory adjustment store contract, tenant scoped
// through an explicit tenantID argument.
type Repository interface {
	Upsert(ctx context.Context, tenantID string, a *Adjustment) error

	// GetAdjustment returns the active adjustment for the territory, or a
	// not-found error. Callers treat absence as "no adjustment", never as a
	// pricing failure.
	GetAdjustment(ctx context.Context, tenantID, territory string) (*Adjustment, error)

	List(ctx context.Context, tenantID string) ([]*Adjustment, error)
	Delete(ctx context.Context, tenantID, territory string) error
}
