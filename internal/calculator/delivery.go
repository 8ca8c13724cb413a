package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DeliveryMode selects how the delivery fee is computed.
type DeliveryMode string

const (
	DeliveryModeFlat   DeliveryMode = "flat"
	DeliveryModeRadial DeliveryMode = "radial"
)

// DeliveryRule records which branch of the resolver produced a fee.
type DeliveryRule string

const (
	DeliveryRuleFree         DeliveryRule = "free"
	DeliveryRuleFlat         DeliveryRule = "flat"
	DeliveryRuleRadialTier   DeliveryRule = "radial_tier"
	DeliveryRuleRadialBeyond DeliveryRule = "radial_beyond"
)

// RadialTier charges Price for deliveries up to KmCeiling kilometers from the shop.
type RadialTier struct {
	KmCeiling float64
	Price     decimal.Decimal
}

// DeliveryConfig holds the administrative delivery fee settings.
type DeliveryConfig struct {
	Mode    DeliveryMode
	FlatFee decimal.Decimal

	// FreeDeliveryThreshold waives the fee when the subtotal reaches it.
	// An unset threshold never waives.
	FreeDeliveryThreshold decimal.NullDecimal

	Tiers          []RadialTier
	BeyondTiersFee decimal.Decimal

	// Shop is required for radial mode; without it radial falls back to flat.
	Shop *Coordinates
}

// DeliveryQuote is the resolved fee plus how it was obtained.
type DeliveryQuote struct {
	Fee        decimal.Decimal
	Rule       DeliveryRule
	DistanceKm *float64
}

// ResolveDeliveryFee computes the delivery fee for an order subtotal.
//
// The free-delivery threshold is checked first. Radial pricing applies only
// when the mode is radial and shop coordinates, destination coordinates and at
// least one tier are all present; in every other case the flat fee is charged.
func ResolveDeliveryFee(cfg DeliveryConfig, subtotal decimal.Decimal, dest *Coordinates) DeliveryQuote {
	if cfg.FreeDeliveryThreshold.Valid && subtotal.GreaterThanOrEqual(cfg.FreeDeliveryThreshold.Decimal) {
		return DeliveryQuote{Fee: decimal.Zero, Rule: DeliveryRuleFree}
	}

	if cfg.Mode == DeliveryModeRadial && cfg.Shop != nil && dest != nil && len(cfg.Tiers) > 0 {
		distance := DistanceKm(*cfg.Shop, *dest)

		tiers := make([]RadialTier, len(cfg.Tiers))
		copy(tiers, cfg.Tiers)
		sort.SliceStable(tiers, func(i, j int) bool {
			return tiers[i].KmCeiling < tiers[j].KmCeiling
		})

		for _, tier := range tiers {
			if tier.KmCeiling >= distance {
				return DeliveryQuote{Fee: tier.Price, Rule: DeliveryRuleRadialTier, DistanceKm: &distance}
			}
		}
		return DeliveryQuote{Fee: cfg.BeyondTiersFee, Rule: DeliveryRuleRadialBeyond, DistanceKm: &distance}
	}

	return DeliveryQuote{Fee: cfg.FlatFee, Rule: DeliveryRuleFlat}
}

// DeliveryFee is ResolveDeliveryFee without the audit details.
func DeliveryFee(cfg DeliveryConfig, subtotal decimal.Decimal, dest *Coordinates) decimal.Decimal {
	return ResolveDeliveryFee(cfg, subtotal, dest).Fee
}
