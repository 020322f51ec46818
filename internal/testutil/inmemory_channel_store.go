package testutil

import (
	"context"

	"github.com/storegrid/backoffice/internal/domain/channel"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/types"
)

// InMemoryChannelStore implements channel.Repository
type InMemoryChannelStore struct {
	*InMemoryStore[*channel.Channel]
}

func NewInMemoryChannelStore() *InMemoryChannelStore {
	return &InMemoryChannelStore{
		InMemoryStore: NewInMemoryStore[*channel.Channel](),
	}
}

func (s *InMemoryChannelStore) Create(ctx context.Context, tenantID string, c *channel.Channel) error {
	if c == nil {
		return ierr.NewError("channel cannot be nil").
			WithHint("Channel data is required").
			Mark(ierr.ErrValidation)
	}
	if c.ID == "" {
		c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHANNEL)
	}
	c.TenantID = tenantID
	if err := s.InMemoryStore.Create(ctx, c.ID, c); err != nil {
		return ierr.WithError(err).
			WithHint("A channel with this identifier already exists").
			WithReportableDetails(map[string]any{"channel_id": c.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryChannelStore) Get(ctx context.Context, tenantID, id string) (*channel.Channel, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || c.TenantID != tenantID || c.Status == types.StatusRemoved {
		return nil, ierr.NewError("channel not found").
			WithHintf("Channel %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (s *InMemoryChannelStore) ListByCell(ctx context.Context, tenantID, cellID string) ([]*channel.Channel, error) {
	return s.InMemoryStore.List(ctx, cellID,
		func(ctx context.Context, c *channel.Channel, filter interface{}) bool {
			return c != nil && c.TenantID == tenantID && c.CellID == cellID && c.Status == types.StatusActive
		},
		func(i, j *channel.Channel) bool {
			return i.Name < j.Name
		})
}

func (s *InMemoryChannelStore) Update(ctx context.Context, tenantID string, c *channel.Channel) error {
	if _, err := s.Get(ctx, tenantID, c.ID); err != nil {
		return err
	}
	c.TenantID = tenantID
	return s.InMemoryStore.Update(ctx, c.ID, c)
}
