package models

import "github.com/shopspring/decimal"

// Catalog is the complete pricing catalog of one organization.
type Catalog struct {
	MenuItems       []MenuItem
	Sizes           []Size
	SizeAssignments []SizeAssignment
	Ingredients     []Ingredient
}

// MenuItem is a sellable product.
type MenuItem struct {
	ID             string
	OrganizationID string
	Name           string

	// BasePrice is the list price of the product.
	BasePrice decimal.Decimal

	// DiscountedPrice replaces BasePrice when set. It never exceeds BasePrice.
	DiscountedPrice decimal.NullDecimal
}

// Size is a size variant (e.g. "Large") shared across menu items.
type Size struct {
	ID             string
	OrganizationID string
	Name           string

	// PriceMultiplier scales a menu item's effective price. Always > 0.
	PriceMultiplier decimal.Decimal
}

// SizeAssignment makes a size available for a menu item.
type SizeAssignment struct {
	MenuItemID string
	SizeID     string

	// PriceOverride, when set, is the price of the item in this size;
	// the size multiplier is then ignored.
	PriceOverride decimal.NullDecimal
}

// Ingredient is an extra that can be added to a product.
type Ingredient struct {
	ID             string
	OrganizationID string
	Name           string
	DefaultPrice   decimal.Decimal

	// SizePrices maps a size ID to the ingredient price for that size.
	SizePrices map[string]decimal.Decimal
}
