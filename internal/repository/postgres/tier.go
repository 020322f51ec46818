package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/tier"
	ierr "github.com/storegrid/backoffice/internal/errors"
	"github.com/storegrid/backoffice/internal/postgres"
	"github.com/storegrid/backoffice/internal/types"
)

type tierRepository struct {
	client *postgres.Client
}

func NewTierRepository(client *postgres.Client) tier.Repository {
	return &tierRepository{client: client}
}

// tierRow maps the flat pricing_tiers columns onto the domain tier.
type tierRow struct {
	ID                   string          `db:"id"`
	LookupKey            string          `db:"lookup_key"`
	TenantID             string          `db:"tenant_id"`
	ProductID            *string         `db:"product_id"`
	CategoryID           *string         `db:"category_id"`
	GroupID              *string         `db:"group_id"`
	Territory            *string         `db:"territory"`
	MinQuantity          int64           `db:"min_quantity"`
	MaxQuantity          *int64          `db:"max_quantity"`
	DiscountKind         string          `db:"discount_kind"`
	DiscountValue        decimal.Decimal `db:"discount_value"`
	PaymentTermsDiscount decimal.Decimal `db:"payment_terms_discount"`
	Priority             int             `db:"priority"`
	EffectiveDate        time.Time       `db:"effective_date"`
	ExpiryDate           *time.Time      `db:"expiry_date"`
	Status               string          `db:"status"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
	CreatedBy            string          `db:"created_by"`
	UpdatedBy            string          `db:"updated_by"`
}

func (r tierRow) toDomain() *tier.PricingTier {
	return &tier.PricingTier{
		ID:         r.ID,
		LookupKey:  r.LookupKey,
		ProductID:  r.ProductID,
		CategoryID: r.CategoryID,
		GroupID:    r.GroupID,
		Territory:  r.Territory,

		MinQuantity: r.MinQuantity,
		MaxQuantity: r.MaxQuantity,
		Discount: tier.Discount{
			Kind:  types.DiscountKind(r.DiscountKind),
			Value: r.DiscountValue,
		},
		PaymentTermsDiscount: r.PaymentTermsDiscount,
		Priority:             r.Priority,
		EffectiveDate:        r.EffectiveDate,
		ExpiryDate:           r.ExpiryDate,
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

func fromDomain(t *tier.PricingTier) tierRow {
	return tierRow{
		ID:                   t.ID,
		LookupKey:            t.LookupKey,
		TenantID:             t.TenantID,
		ProductID:            t.ProductID,
		CategoryID:           t.CategoryID,
		GroupID:              t.GroupID,
		Territory:            t.Territory,
		MinQuantity:          t.MinQuantity,
		MaxQuantity:          t.MaxQuantity,
		DiscountKind:         string(t.Discount.Kind),
		DiscountValue:        t.Discount.Value,
		PaymentTermsDiscount: t.PaymentTermsDiscount,
		Priority:             t.Priority,
		EffectiveDate:        t.EffectiveDate,
		ExpiryDate:           t.ExpiryDate,
		Status:               string(t.Status),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		CreatedBy:            t.CreatedBy,
		UpdatedBy:            t.UpdatedBy,
	}
}

const tierColumns = `id, lookup_key, tenant_id, product_id, category_id, group_id, territory,
	min_quantity, max_quantity, discount_kind, discount_value, payment_terms_discount,
	priority, effective_date, expiry_date, status, created_at, updated_at, created_by, updated_by`

func (r *tierRepository) Create(ctx context.Context, tenantID string, t *tier.PricingTier) error {
	row := fromDomain(t)
	row.TenantID = tenantID

	_, err := r.client.DB.NamedExecContext(ctx, `
		INSERT INTO pricing_tiers (`+tierColumns+`)
		VALUES (:id, :lookup_key, :tenant_id, :product_id, :category_id, :group_id, :territory,
			:min_quantity, :max_quantity, :discount_kind, :discount_value, :payment_terms_discount,
			:priority, :effective_date, :expiry_date, :status, :created_at, :updated_at, :created_by, :updated_by)`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create pricing tier").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tierRepository) Get(ctx context.Context, tenantID, id string) (*tier.PricingTier, error) {
	var row tierRow
	err := r.client.DB.GetContext(ctx, &row, `
		SELECT `+tierColumns+` FROM pricing_tiers
		WHERE tenant_id = $1 AND id = $2 AND status != $3`,
		tenantID, id, string(types.StatusRemoved))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("pricing tier not found").
				WithHintf("Pricing tier %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get pricing tier").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *tierRepository) List(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error) {
	return r.list(ctx, tenantID, selector, true)
}

func (r *tierRepository) ListAll(ctx context.Context, tenantID string, selector tier.Selector) ([]*tier.PricingTier, error) {
	return r.list(ctx, tenantID, selector, false)
}

func (r *tierRepository) list(ctx context.Context, tenantID string, selector tier.Selector, effectiveOnly bool) ([]*tier.PricingTier, error) {
	query, namedArgs := buildTierListQuery(tenantID, selector, effectiveOnly)

	stmt, err := r.client.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to prepare tier query").
			Mark(ierr.ErrDatabase)
	}
	defer stmt.Close()

	rows := []tierRow{}
	if err := stmt.SelectContext(ctx, &rows, namedArgs); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list pricing tiers").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*tier.PricingTier, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func buildTierListQuery(tenantID string, selector tier.Selector, effectiveOnly bool) (string, map[string]interface{}) {
	query := `SELECT ` + tierColumns + ` FROM pricing_tiers
		WHERE tenant_id = :tenant_id AND status != :removed`
	args := map[string]interface{}{
		"tenant_id": tenantID,
		"removed":   string(types.StatusRemoved),
	}

	if selector.ProductID != "" || selector.CategoryID != "" {
		query += ` AND (product_id = :product_id OR category_id = :category_id)`
		args["product_id"] = selector.ProductID
		args["category_id"] = selector.CategoryID
	}
	if selector.GroupID != "" {
		query += ` AND (group_id IS NULL OR group_id = :group_id)`
		args["group_id"] = selector.GroupID
	} else {
		query += ` AND group_id IS NULL`
	}
	if selector.Territory != "" {
		query += ` AND (territory IS NULL OR territory = :territory)`
		args["territory"] = selector.Territory
	} else {
		query += ` AND territory IS NULL`
	}

	if effectiveOnly {
		query += ` AND status = :active AND effective_date <= :now
			AND (expiry_date IS NULL OR expiry_date > :now)`
		args["active"] = string(types.StatusActive)
		args["now"] = time.Now().UTC()
	}

	query += ` ORDER BY priority ASC, effective_date ASC`
	return query, args
}

func (r *tierRepository) Update(ctx context.Context, tenantID string, t *tier.PricingTier) error {
	row := fromDomain(t)
	row.TenantID = tenantID
	row.UpdatedAt = time.Now().UTC()

	result, err := r.client.DB.NamedExecContext(ctx, `
		UPDATE pricing_tiers SET
			product_id = :product_id, category_id = :category_id, group_id = :group_id,
			territory = :territory, min_quantity = :min_quantity, max_quantity = :max_quantity,
			discount_kind = :discount_kind, discount_value = :discount_value,
			payment_terms_discount = :payment_terms_discount, priority = :priority,
			effective_date = :effective_date, expiry_date = :expiry_date,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE tenant_id = :tenant_id AND id = :id`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update pricing tier").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("pricing tier not found").
			WithHintf("Pricing tier %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *tierRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.client.DB.ExecContext(ctx, `
		DELETE FROM pricing_tiers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete pricing tier").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("pricing tier not found").
			WithHintf("Pricing tier %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
