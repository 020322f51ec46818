package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storegrid/backoffice/internal/domain/tier"
	"github.com/storegrid/backoffice/internal/types"
)

func newTestTier(id string, kind types.DiscountKind, value float64, minQty int64, maxQty *int64) *tier.PricingTier {
	productID := "prod_1"
	return &tier.PricingTier{
		ID:            id,
		ProductID:     &productID,
		MinQuantity:   minQty,
		MaxQuantity:   maxQty,
		Discount:      tier.Discount{Kind: kind, Value: decimal.NewFromFloat(value)},
		EffectiveDate: time.Now().UTC().Add(-24 * time.Hour),
		BaseModel: types.BaseModel{
			TenantID: types.DefaultTenantID,
			Status:   types.StatusActive,
		},
	}
}

func TestSelectTier(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no tiers returns nil", func(t *testing.T) {
		assert.Nil(t, SelectTier(nil, 10, now))
		assert.Nil(t, SelectTier([]*tier.PricingTier{}, 10, now))
	})

	t.Run("quantity outside every range returns nil", func(t *testing.T) {
		tiers := []*tier.PricingTier{
			newTestTier("tier_1", types.DiscountKindPercentage, 10, 10, lo.ToPtr(int64(50))),
		}
		assert.Nil(t, SelectTier(tiers, 5, now))
		assert.Nil(t, SelectTier(tiers, 50, now), "max bound is exclusive")
	})

	t.Run("range bounds are half open", func(t *testing.T) {
		tiers := []*tier.PricingTier{
			newTestTier("tier_1", types.DiscountKindPercentage, 10, 10, lo.ToPtr(int64(50))),
		}
		assert.NotNil(t, SelectTier(tiers, 10, now), "min bound is inclusive")
		assert.NotNil(t, SelectTier(tiers, 49, now))
	})

	t.Run("greatest magnitude wins across kinds", func(t *testing.T) {
		// at quantity 10: percentage 20 beats fixed_amount 1.5 (magnitude 15)
		tiers := []*tier.PricingTier{
			newTestTier("tier_pct", types.DiscountKindPercentage, 20, 1, nil),
			newTestTier("tier_amt", types.DiscountKindFixedAmount, 1.5, 1, nil),
		}
		selected := SelectTier(tiers, 10, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_pct", selected.ID)

		// at quantity 100 the fixed amount magnitude is 150 and wins
		selected = SelectTier(tiers, 100, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_amt", selected.ID)
	})

	t.Run("fixed price outranks every other kind", func(t *testing.T) {
		tiers := []*tier.PricingTier{
			newTestTier("tier_pct", types.DiscountKindPercentage, 90, 1, nil),
			newTestTier("tier_fixed", types.DiscountKindFixedPrice, 99, 1, nil),
		}
		selected := SelectTier(tiers, 10, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_fixed", selected.ID)
	})

	t.Run("magnitude tie falls to lowest priority", func(t *testing.T) {
		a := newTestTier("tier_a", types.DiscountKindPercentage, 20, 1, nil)
		a.Priority = 5
		b := newTestTier("tier_b", types.DiscountKindPercentage, 20, 1, nil)
		b.Priority = 1

		selected := SelectTier([]*tier.PricingTier{a, b}, 10, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_b", selected.ID)
	})

	t.Run("priority tie falls to earliest effective date", func(t *testing.T) {
		a := newTestTier("tier_a", types.DiscountKindPercentage, 20, 1, nil)
		a.EffectiveDate = now.Add(-1 * time.Hour)
		b := newTestTier("tier_b", types.DiscountKindPercentage, 20, 1, nil)
		b.EffectiveDate = now.Add(-48 * time.Hour)

		selected := SelectTier([]*tier.PricingTier{a, b}, 10, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_b", selected.ID)
	})

	t.Run("inactive and out of window tiers are ignored", func(t *testing.T) {
		inactive := newTestTier("tier_inactive", types.DiscountKindPercentage, 50, 1, nil)
		inactive.Status = types.StatusInactive

		expired := newTestTier("tier_expired", types.DiscountKindPercentage, 50, 1, nil)
		expired.ExpiryDate = lo.ToPtr(now.Add(-1 * time.Hour))

		future := newTestTier("tier_future", types.DiscountKindPercentage, 50, 1, nil)
		future.EffectiveDate = now.Add(time.Hour)

		live := newTestTier("tier_live", types.DiscountKindPercentage, 5, 1, nil)

		selected := SelectTier([]*tier.PricingTier{inactive, expired, future, live}, 10, now)
		require.NotNil(t, selected)
		assert.Equal(t, "tier_live", selected.ID)
	})

	t.Run("selected tier always has maximal magnitude", func(t *testing.T) {
		tiers := []*tier.PricingTier{
			newTestTier("tier_1", types.DiscountKindPercentage, 10, 1, nil),
			newTestTier("tier_2", types.DiscountKindPercentage, 25, 1, nil),
			newTestTier("tier_3", types.DiscountKindFixedAmount, 2, 1, nil),
			newTestTier("tier_4", types.DiscountKindFixedAmount, 0.1, 1, nil),
		}

		for _, qty := range []int64{1, 5, 10, 100, 1000} {
			selected := SelectTier(tiers, qty, now)
			require.NotNil(t, selected)
			for _, other := range tiers {
				assert.True(t,
					selected.ComparableMagnitude(qty).GreaterThanOrEqual(other.ComparableMagnitude(qty)),
					"quantity %d: %s must not be beaten by %s", qty, selected.ID, other.ID)
			}
		}
	})
}
