package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/territory"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/types"
)

type territoryRepository struct {
	client *postgres.Client
}

func NewTerritoryRepository(client *postgres.Client) territory.Repository {
	return &territoryRepository{client: client}
}

type territoryRow struct {
	ID                 string          `db:"id"`
	TenantID           string          `db:"tenant_id"`
	Territory          string          `db:"territory"`
	PriceMultiplier    decimal.Decimal `db:"price_multiplier"`
	ShippingMultiplier decimal.Decimal `db:"shipping_multiplier"`
	TaxMultiplier      decimal.Decimal `db:"tax_multiplier"`
	Status             string          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
	CreatedBy          string          `db:"created_by"`
	UpdatedBy          string          `db:"updated_by"`
}

func (r territoryRow) toDomain() *territory.Adjustment {
	return &territory.Adjustment{
		ID:                 r.ID,
		Territory:          r.Territory,
		PriceMultiplier:    r.PriceMultiplier,
		ShippingMultiplier: r.ShippingMultiplier,
		TaxMultiplier:      r.TaxMultiplier,
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

const territoryColumns = `id, tenant_id, territory, price_multiplier,
	shipping_multiplier, tax_multiplier, status, created_at, updated_at, created_by, updated_by`

func (r *territoryRepository) Upsert(ctx context.Context, tenantID string, a *territory.Adjustment) error {
	row := territoryRow{
		ID:                 a.ID,
		TenantID:           tenantID,
		Territory:          a.Territory,
		PriceMultiplier:    a.PriceMultiplier,
		ShippingMultiplier: a.ShippingMultiplier,
		TaxMultiplier:      a.TaxMultiplier,
		Status:             string(a.Status),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          time.Now().UTC(),
		CreatedBy:          a.CreatedBy,
		UpdatedBy:          a.UpdatedBy,
	}

	// one active row per (tenant, territory)
	_, err := r.client.DB.NamedExecContext(ctx, `
		INSERT INTO territory_adjustments (`+territoryColumns+`)
		VALUES (:id, :tenant_id, :territory, :price_multiplier,
			:shipping_multiplier, :tax_multiplier, :status, :created_at, :updated_at, :created_by, :updated_by)
		ON CONFLICT (tenant_id, territory) DO UPDATE SET
			price_multiplier = EXCLUDED.price_multiplier,
			shipping_multiplier = EXCLUDED.shipping_multiplier,
			tax_multiplier = EXCLUDED.tax_multiplier,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert territory adjustment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *territoryRepository) GetAdjustment(ctx context.Context, tenantID, terr string) (*territory.Adjustment, error) {
	var row territoryRow
	err := r.client.DB.GetContext(ctx, &row, `
		SELECT `+territoryColumns+` FROM territory_adjustments
		WHERE tenant_id = $1 AND territory = $2 AND status = $3`,
		tenantID, terr, string(types.StatusActive))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("territory adjustment not found").
				WithHintf("No adjustment configured for territory %s", terr).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get territory adjustment").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *territoryRepository) List(ctx context.Context, tenantID string) ([]*territory.Adjustment, error) {
	rows := []territoryRow{}
	err := r.client.DB.SelectContext(ctx, &rows, `
		SELECT `+territoryColumns+` FROM territory_adjustments
		WHERE tenant_id = $1 AND status = $2
		ORDER BY territory ASC`,
		tenantID, string(types.StatusActive))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list territory adjustments").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*territory.Adjustment, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func (r *territoryRepository) Delete(ctx context.Context, tenantID, terr string) error {
	result, err := r.client.DB.ExecContext(ctx, `
		UPDATE territory_adjustments SET status = $3, updated_at = $4
		WHERE tenant_id = $1 AND territory = $2`,
		tenantID, terr, string(types.StatusRemoved), time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete territory adjustment").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("territory adjustment not found").
			WithHintf("No adjustment configured for territory %s", terr).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
