package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/product"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/types"
)

type productRepository struct {
	client *postgres.Client
}

func NewProductRepository(client *postgres.Client) product.Repository {
	return &productRepository{client: client}
}

type productRow struct {
	ID         string          `db:"id"`
	TenantID   string          `db:"tenant_id"`
	Name       string          `db:"name"`
	CategoryID string          `db:"category_id"`
	BasePrice  decimal.Decimal `db:"base_price"`
	Currency   string          `db:"currency"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
	CreatedBy  string          `db:"created_by"`
	UpdatedBy  string          `db:"updated_by"`
}

func (r productRow) toDomain() *product.Product {
	return &product.Product{
		ID:         r.ID,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		BasePrice:  r.BasePrice,
		Currency:   r.Currency,
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

const productColumns = `id, tenant_id, name, category_id, base_price, currency, status, created_at, updated_at, created_by, updated_by`

func (r *productRepository) Get(ctx context.Context, tenantID, id string) (*product.Product, error) {
	var row productRow
	err := r.client.DB.GetContext(ctx, &row, `
		SELECT `+productColumns+` FROM products
		WHERE tenant_id = $1 AND id = $2 AND status = $3`,
		tenantID, id, string(types.StatusActive))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("product not found").
				WithHintf("Product %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *productRepository) Upsert(ctx context.Context, tenantID string, p *product.Product) error {
	row := productRow{
		ID:         p.ID,
		TenantID:   tenantID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		BasePrice:  p.BasePrice,
		Currency:   p.Currency,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
		CreatedBy:  p.CreatedBy,
		UpdatedBy:  p.UpdatedBy,
	}

	_, err := r.client.DB.NamedExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :tenant_id, :name, :category_id, :base_price, :currency, :status, :created_at, :updated_at, :created_by, :updated_by)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			category_id = EXCLUDED.category_id,
			base_price = EXCLUDED.base_price,
			currency = EXCLUDED.currency,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert product").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
