package group

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the customer group store contract.
type Repository interface {
	Upsert(ctx context.Context, tenantID string, g *CustomerGroup) error
	Get(ctx context.Context, tenantID, id string) (*CustomerGroup, error)
	List(ctx context.Context, tenantID string) ([]*CustomerGroup, error)

	// GetDiscountRate returns the group's discount rate, or zero for an
	// unknown group. Unknown groups are not an error.
	GetDiscountRate(ctx context.Context, tenantID, groupID string) (decimal.Decimal, error)
}
