package models

import "github.com/shopspring/decimal"

// Order is a submitted order with its server-computed totals.
type Order struct {
	// ID is the unique identifier for the order (UUID format).
	ID string

	OrganizationID string

	// OrderType is "delivery", "takeaway" or "dine_in".
	OrderType string

	Lines []OrderLine

	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal

	// DeliveryRule records how the fee was resolved ("free", "flat",
	// "radial_tier", "radial_beyond"). Empty for non-delivery orders.
	DeliveryRule string

	// DeliveryDistanceKm is set when a radial fee was computed.
	DeliveryDistanceKm *float64

	DeliveryLatitude  *float64
	DeliveryLongitude *float64

	// CreatedBy is the authenticated user who submitted the order, if any.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the order was stored.
	CreatedAt int64
}

// OrderLine is one priced line of an order.
type OrderLine struct {
	ID       string
	Position int

	MenuItemID string
	SizeID     string
	Added      []AddedIngredient

	// SecondMenuItemID is set for split (half-and-half) lines.
	SecondMenuItemID string
	SecondSizeID     string
	SecondAdded      []AddedIngredient

	// Removed ingredient IDs, kept for the kitchen. No price effect.
	Removed []string

	Note     string
	Quantity int

	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal

	BasePrice       decimal.Decimal
	IngredientsCost decimal.Decimal

	// Split breakdown; only valid for split lines.
	SecondBasePrice       decimal.NullDecimal
	SecondIngredientsCost decimal.NullDecimal
	RawAverage            decimal.NullDecimal
	RoundingApplied       bool
}

// IsSplit reports whether the line combines two products.
func (l OrderLine) IsSplit() bool {
	return l.SecondMenuItemID != ""
}

// AddedIngredient is an ingredient added to one side of a line.
type AddedIngredient struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     int    `json:"quantity"`
}
