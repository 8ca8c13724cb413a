package calculator

import "github.com/shopspring/decimal"

// MenuItem is the pricing view of a catalog product.
type MenuItem struct {
	ID              string
	BasePrice       decimal.Decimal
	DiscountedPrice decimal.NullDecimal
}

// EffectivePrice returns the discounted price when one is set, otherwise the base price.
func (m MenuItem) EffectivePrice() decimal.Decimal {
	if m.DiscountedPrice.Valid {
		return m.DiscountedPrice.Decimal
	}
	return m.BasePrice
}

// Size is a size variant shared across menu items (e.g. "large").
type Size struct {
	ID              string
	PriceMultiplier decimal.Decimal
}

// SizeAssignment links a menu item to a size. When PriceOverride is set it
// replaces the multiplier-derived price entirely.
type SizeAssignment struct {
	MenuItemID    string
	SizeID        string
	PriceOverride decimal.NullDecimal
}

// Ingredient is an addable topping/extra with an optional per-size price.
type Ingredient struct {
	ID           string
	DefaultPrice decimal.Decimal
	SizePrices   map[string]decimal.Decimal
}

// PriceFor returns the size-specific price for sizeID if the ingredient defines
// one, otherwise its default price.
func (i Ingredient) PriceFor(sizeID string) decimal.Decimal {
	if sizeID != "" {
		if p, ok := i.SizePrices[sizeID]; ok {
			return p
		}
	}
	return i.DefaultPrice
}

type assignmentKey struct {
	menuItemID string
	sizeID     string
}

// Catalog is an immutable, point-in-time snapshot of the pricing data needed
// for one calculation session. Build one per request with NewCatalog; it is
// safe to share between goroutines once built.
type Catalog struct {
	items       map[string]MenuItem
	sizes       map[string]Size
	assignments map[assignmentKey]SizeAssignment
	ingredients map[string]Ingredient
}

// NewCatalog indexes the given records by id. The inputs are copied, so later
// mutation of the slices (or ingredient size maps) does not affect the snapshot.
// If an id appears more than once the last record wins.
func NewCatalog(items []MenuItem, sizes []Size, assignments []SizeAssignment, ingredients []Ingredient) *Catalog {
	c := &Catalog{
		items:       make(map[string]MenuItem, len(items)),
		sizes:       make(map[string]Size, len(sizes)),
		assignments: make(map[assignmentKey]SizeAssignment, len(assignments)),
		ingredients: make(map[string]Ingredient, len(ingredients)),
	}
	for _, item := range items {
		c.items[item.ID] = item
	}
	for _, size := range sizes {
		c.sizes[size.ID] = size
	}
	for _, a := range assignments {
		c.assignments[assignmentKey{a.MenuItemID, a.SizeID}] = a
	}
	for _, ing := range ingredients {
		prices := make(map[string]decimal.Decimal, len(ing.SizePrices))
		for sizeID, p := range ing.SizePrices {
			prices[sizeID] = p
		}
		ing.SizePrices = prices
		c.ingredients[ing.ID] = ing
	}
	return c
}

// MenuItem looks up a menu item by id.
func (c *Catalog) MenuItem(id string) (MenuItem, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Size looks up a size variant by id.
func (c *Catalog) Size(id string) (Size, bool) {
	size, ok := c.sizes[id]
	return size, ok
}

// SizeAssignment looks up the (menu item, size) pairing.
func (c *Catalog) SizeAssignment(menuItemID, sizeID string) (SizeAssignment, bool) {
	a, ok := c.assignments[assignmentKey{menuItemID, sizeID}]
	return a, ok
}

// Ingredient looks up an ingredient by id.
func (c *Catalog) Ingredient(id string) (Ingredient, bool) {
	ing, ok := c.ingredients[id]
	return ing, ok
}
