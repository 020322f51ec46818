package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/storegrid/backoffice/internal/domain/channel"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/types"
)

type channelRepository struct {
	client *postgres.Client
}

func NewChannelRepository(client *postgres.Client) channel.Repository {
	return &channelRepository{client: client}
}

// channelRow keeps policy and pin as JSONB; their shapes are owned by the
// domain package and round-trip through encoding/json.
type channelRow struct {
	ID             string          `db:"id"`
	TenantID       string          `db:"tenant_id"`
	CellID         string          `db:"cell_id"`
	Name           string          `db:"name"`
	CurrentVersion string          `db:"current_version"`
	Policy         json.RawMessage `db:"policy"`
	Pin            json.RawMessage `db:"pin"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	CreatedBy      string          `db:"created_by"`
	UpdatedBy      string          `db:"updated_by"`
}

const channelColumns = `id, tenant_id, cell_id, name, current_version, policy, pin, status, created_at, updated_at, created_by, updated_by`

func toChannelRow(tenantID string, c *channel.Channel) (*channelRow, error) {
	row := &channelRow{
		ID:             c.ID,
		TenantID:       tenantID,
		CellID:         c.CellID,
		Name:           c.Name,
		CurrentVersion: c.CurrentVersion,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		CreatedBy:      c.CreatedBy,
		UpdatedBy:      c.UpdatedBy,
	}

	if c.Policy != nil {
		data, err := json.Marshal(c.Policy)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to serialize advancement policy").
				Mark(ierr.ErrValidation)
		}
		row.Policy = data
	}
	if c.Pin != nil {
		data, err := json.Marshal(c.Pin)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to serialize version pin").
				Mark(ierr.ErrValidation)
		}
		row.Pin = data
	}
	return row, nil
}

func (r channelRow) toDomain() (*channel.Channel, error) {
	c := &channel.Channel{
		ID:             r.ID,
		CellID:         r.CellID,
		Name:           r.Name,
		CurrentVersion: r.CurrentVersion,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}

	if len(r.Policy) > 0 {
		var policy channel.AdvancementPolicy
		if err := json.Unmarshal(r.Policy, &policy); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Stored policy for channel %s is malformed", r.ID).
				Mark(ierr.ErrEvaluation)
		}
		c.Policy = &policy
	}
	if len(r.Pin) > 0 {
		var pin channel.VersionPin
		if err := json.Unmarshal(r.Pin, &pin); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Stored pin for channel %s is malformed", r.ID).
				Mark(ierr.ErrEvaluation)
		}
		c.Pin = &pin
	}
	return c, nil
}

func (r *channelRepository) Create(ctx context.Context, tenantID string, c *channel.Channel) error {
	row, err := toChannelRow(tenantID, c)
	if err != nil {
		return err
	}

	_, err = r.client.DB.NamedExecContext(ctx, `
		INSERT INTO channels (`+channelColumns+`)
		VALUES (:id, :tenant_id, :cell_id, :name, :current_version, :policy, :pin, :status, :created_at, :updated_at, :created_by, :updated_by)`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create channel").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *channelRepository) Get(ctx context.Context, tenantID, id string) (*channel.Channel, error) {
	var row channelRow
	err := r.client.DB.GetContext(ctx, &row, `
		SELECT `+channelColumns+` FROM channels
		WHERE tenant_id = $1 AND id = $2 AND status != $3`,
		tenantID, id, string(types.StatusRemoved))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("channel not found").
				WithHintf("Channel %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get channel").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *channelRepository) ListByCell(ctx context.Context, tenantID, cellID string) ([]*channel.Channel, error) {
	var rows []channelRow
	err := r.client.DB.SelectContext(ctx, &rows, `
		SELECT `+channelColumns+` FROM channels
		WHERE tenant_id = $1 AND cell_id = $2 AND status = $3
		ORDER BY name ASC`,
		tenantID, cellID, string(types.StatusActive))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list channels").
			Mark(ierr.ErrDatabase)
	}

	channels := make([]*channel.Channel, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}
	return channels, nil
}

func (r *channelRepository) Update(ctx context.Context, tenantID string, c *channel.Channel) error {
	row, err := toChannelRow(tenantID, c)
	if err != nil {
		return err
	}
	row.UpdatedAt = time.Now().UTC()

	res, err := r.client.DB.NamedExecContext(ctx, `
		UPDATE channels SET
			name = :name,
			current_version = :current_version,
			policy = :policy,
			pin = :pin,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE tenant_id = :tenant_id AND id = :id`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update channel").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("channel not found").
			WithHintf("Channel %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
