package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Delivery modes accepted in DeliverySettings.Mode.
const (
	DeliveryModeFlat   = "flat"
	DeliveryModeRadial = "radial"
)

// ErrInvalidSettings is wrapped by every DeliverySettings validation failure.
var ErrInvalidSettings = errors.New("invalid delivery settings")

// DeliverySettings is an organization's delivery fee configuration.
type DeliverySettings struct {
	OrganizationID string

	// Mode is "flat" or "radial".
	Mode string

	// FlatFee is charged in flat mode and whenever radial pricing cannot apply.
	FlatFee decimal.Decimal

	// FreeDeliveryThreshold waives the fee for subtotals at or above it.
	FreeDeliveryThreshold decimal.NullDecimal

	// Tiers are the radial distance bands. Order does not matter.
	Tiers []DeliveryTier

	// BeyondTiersFee is charged past the last tier.
	BeyondTiersFee decimal.Decimal

	// ShopLatitude and ShopLongitude locate the shop; both are needed for radial mode.
	ShopLatitude  *float64
	ShopLongitude *float64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// DeliveryTier charges Price for deliveries up to KmCeiling kilometers away.
type DeliveryTier struct {
	KmCeiling float64
	Price     decimal.Decimal
}

// Validate checks the settings before they are stored. Money amounts must be
// non-negative and every tier must have a positive ceiling.
func (s *DeliverySettings) Validate() error {
	if s.Mode != DeliveryModeFlat && s.Mode != DeliveryModeRadial {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	if s.FlatFee.IsNegative() {
		return fmt.Errorf("%w: flat fee is negative", ErrInvalidSettings)
	}
	if s.BeyondTiersFee.IsNegative() {
		return fmt.Errorf("%w: beyond-tiers fee is negative", ErrInvalidSettings)
	}
	if s.FreeDeliveryThreshold.Valid && s.FreeDeliveryThreshold.Decimal.IsNegative() {
		return fmt.Errorf("%w: free delivery threshold is negative", ErrInvalidSettings)
	}
	for i, tier := range s.Tiers {
		if math.IsNaN(tier.KmCeiling) || tier.KmCeiling <= 0 {
			return fmt.Errorf("%w: tier %d has a non-positive distance", ErrInvalidSettings, i)
		}
		if tier.Price.IsNegative() {
			return fmt.Errorf("%w: tier %d has a negative price", ErrInvalidSettings, i)
		}
	}
	if (s.ShopLatitude == nil) != (s.ShopLongitude == nil) {
		return fmt.Errorf("%w: shop location needs both latitude and longitude", ErrInvalidSettings)
	}
	if s.ShopLatitude != nil {
		lat, lon := *s.ShopLatitude, *s.ShopLongitude
		if !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
			return fmt.Errorf("%w: shop location out of range", ErrInvalidSettings)
		}
	}
	return nil
}
