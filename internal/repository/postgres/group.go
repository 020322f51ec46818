package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/group"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/types"
)

type groupRepository struct {
	client *postgres.Client
}

func NewGroupRepository(client *postgres.Client) group.Repository {
	return &groupRepository{client: client}
}

type groupRow struct {
	ID           string          `db:"id"`
	TenantID     string          `db:"tenant_id"`
	Name         string          `db:"name"`
	DiscountRate decimal.Decimal `db:"discount_rate"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
	CreatedBy    string          `db:"created_by"`
	UpdatedBy    string          `db:"updated_by"`
}

func (r groupRow) toDomain() *group.CustomerGroup {
	return &group.CustomerGroup{
		ID:           r.ID,
		Name:         r.Name,
		DiscountRate: r.DiscountRate,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

const groupColumns = `id, tenant_id, name, discount_rate, status, created_at, updated_at, created_by, updated_by`

func (r *groupRepository) Upsert(ctx context.Context, tenantID string, g *group.CustomerGroup) error {
	row := groupRow{
		ID:           g.ID,
		TenantID:     tenantID,
		Name:         g.Name,
		DiscountRate: g.DiscountRate,
		Status:       string(g.Status),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
		CreatedBy:    g.CreatedBy,
		UpdatedBy:    g.UpdatedBy,
	}

	_, err := r.client.DB.NamedExecContext(ctx, `
		INSERT INTO customer_groups (`+groupColumns+`)
		VALUES (:id, :tenant_id, :name, :discount_rate, :status, :created_at, :updated_at, :created_by, :updated_by)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			discount_rate = EXCLUDED.discount_rate,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert customer group").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *groupRepository) Get(ctx context.Context, tenantID, id string) (*group.CustomerGroup, error) {
	var row groupRow
	err := r.client.DB.GetContext(ctx, &row, `
		SELECT `+groupColumns+` FROM customer_groups
		WHERE tenant_id = $1 AND id = $2 AND status = $3`,
		tenantID, id, string(types.StatusActive))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("customer group not found").
				WithHintf("Customer group %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer group").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *groupRepository) List(ctx context.Context, tenantID string) ([]*group.CustomerGroup, error) {
	rows := []groupRow{}
	err := r.client.DB.SelectContext(ctx, &rows, `
		SELECT `+groupColumns+` FROM customer_groups
		WHERE tenant_id = $1 AND status = $2
		ORDER BY name ASC`,
		tenantID, string(types.StatusActive))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customer groups").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*group.CustomerGroup, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

// GetDiscountRate returns zero for unknown groups; absence is not an error.
func (r *groupRepository) GetDiscountRate(ctx context.Context, tenantID, groupID string) (decimal.Decimal, error) {
	g, err := r.Get(ctx, tenantID, groupID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return g.DiscountRate, nil
}
