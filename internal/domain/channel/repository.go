package channel

import "context"

// Repository is the channel store contract.
type Repository interface {
	Create(ctx context.Context, tenantID string, c *Channel) error
	Get(ctx context.Context, tenantID, id string) (*Channel, error)
	ListByCell(ctx context.Context, tenantID, cellID string) ([]*Channel, error)
	Update(ctx context.Context, tenantID string, c *Channel) error
}

// Registry is the external collaborator that performs the actual version
// publication. Execution delegates the write here and records per-item
// success or failure.
type Registry interface {
	Publish(ctx context.Context, tenantID, channelID, version string) error
}

// Signals exposes the live signals conditional policies evaluate against.
type Signals interface {
	// TenantHealth returns the current health state, e.g. "healthy"
	TenantHealth(ctx context.Context, tenantID string) (string, error)

	// Downloads returns the download count for the channel's current version
	Downloads(ctx context.Context, tenantID, channelID string) (int64, error)
}
