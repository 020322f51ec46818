package service

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/storegrid/backoffice/internal/domain/tier"
)

// SelectTier picks the single best applicable tier for the quantity, or nil
// when nothing matches. Nil is "no discount", never an error.
//
// Applicability requires the tier to be active, inside its date window and to
// contain the quantity in [min, max). Among applicable tiers the one with the
// greatest comparable discount magnitude wins; ties fall to the lowest
// priority value, then the earliest effective date.
func SelectTier(tiers []*tier.PricingTier, quantity int64, now time.Time) *tier.PricingTier {
	candidates := lo.Filter(tiers, func(t *tier.PricingTier, _ int) bool {
		return t != nil && t.IsEffectiveAt(now) && t.MatchesQuantity(quantity)
	})

	var best *tier.PricingTier
	var bestMagnitude decimal.Decimal

	for _, t := range candidates {
		magnitude := t.ComparableMagnitude(quantity)
		switch {
		case best == nil || magnitude.GreaterThan(bestMagnitude):
			best = t
			bestMagnitude = magnitude
		case magnitude.Equal(bestMagnitude):
			if t.Priority < best.Priority {
				best = t
			} else if t.Priority == best.Priority && t.EffectiveDate.Before(best.EffectiveDate) {
				best = t
			}
		}
	}

	return best
}
