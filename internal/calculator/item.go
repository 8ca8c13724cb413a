package calculator

import "github.com/shopspring/decimal"

var (
	two  = decimal.NewFromInt(2)
	half = decimal.New(5, -1)
)

// IngredientSelection adds an ingredient to one side of a line. It never
// carries a price; the price is always looked up in the catalog.
type IngredientSelection struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     int    `json:"quantity"`
}

// Half is one priced side of a line: a product, its size and its additions.
// Regular lines only have a primary half.
type Half struct {
	MenuItemID string                `json:"menu_item_id"`
	SizeID     string                `json:"size_id,omitempty"`
	Added      []IngredientSelection `json:"added,omitempty"`
}

// OrderItemInput is one line of a cart as submitted by a client.
type OrderItemInput struct {
	Primary Half `json:"primary"`

	// Second turns the line into a split (half-and-half) item. A nil Second,
	// or one without a menu item id, prices the line as a regular item.
	Second *Half `json:"second,omitempty"`

	// Removed lists ingredient ids taken off the product. Display only.
	Removed []string `json:"removed,omitempty"`

	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// IsSplit reports whether the line is priced with the split algorithm.
func (in OrderItemInput) IsSplit() bool {
	return in.Second != nil && in.Second.MenuItemID != ""
}

// RefKind names the kind of catalog reference that could not be resolved.
type RefKind string

const (
	RefMenuItem   RefKind = "menu_item"
	RefSize       RefKind = "size"
	RefIngredient RefKind = "ingredient"
)

// UnresolvedRef is a catalog id that contributed nothing to a price because
// the snapshot does not contain it.
type UnresolvedRef struct {
	Kind RefKind `json:"kind"`
	ID   string  `json:"id"`
}

// SplitBreakdown details how a split line's unit price was obtained.
type SplitBreakdown struct {
	SecondBasePrice       decimal.Decimal
	SecondIngredientsCost decimal.Decimal
	RawAverage            decimal.Decimal
	RoundingApplied       bool
}

// PriceBreakdown records the components of a unit price for auditing.
// Split is nil for regular lines.
type PriceBreakdown struct {
	BasePrice       decimal.Decimal
	IngredientsCost decimal.Decimal
	Split           *SplitBreakdown
}

// ItemPrice is the computed price of one line.
type ItemPrice struct {
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Quantity  int
	Breakdown PriceBreakdown

	// Unresolved lists ids that were skipped or zeroed while pricing.
	Unresolved []UnresolvedRef
}

// PriceItem computes the unit price and subtotal of a single line.
//
// It never fails: a non-positive quantity yields a zero line with quantity 0,
// and references missing from the snapshot contribute zero (reported in
// ItemPrice.Unresolved).
func (e *Engine) PriceItem(in OrderItemInput) ItemPrice {
	if in.Quantity <= 0 {
		return zeroPrice(0, nil)
	}
	if in.IsSplit() {
		return e.priceSplit(in)
	}
	return e.priceRegular(in)
}

func (e *Engine) priceRegular(in OrderItemInput) ItemPrice {
	var unresolved []UnresolvedRef

	item, ok := e.catalog.MenuItem(in.Primary.MenuItemID)
	if !ok {
		return zeroPrice(in.Quantity, []UnresolvedRef{{Kind: RefMenuItem, ID: in.Primary.MenuItemID}})
	}

	base := e.basePrice(item, in.Primary.SizeID, &unresolved)
	ingredients := e.ingredientsCost(in.Primary.Added, in.Primary.SizeID, &unresolved)
	unit := base.Add(ingredients)

	return ItemPrice{
		UnitPrice: unit,
		Subtotal:  unit.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Quantity:  in.Quantity,
		Breakdown: PriceBreakdown{
			BasePrice:       base,
			IngredientsCost: ingredients,
		},
		Unresolved: unresolved,
	}
}

// priceSplit averages both sides and rounds the result up to the next 0.5 so
// the seller never loses on the average.
func (e *Engine) priceSplit(in OrderItemInput) ItemPrice {
	var unresolved []UnresolvedRef

	first, okFirst := e.catalog.MenuItem(in.Primary.MenuItemID)
	second, okSecond := e.catalog.MenuItem(in.Second.MenuItemID)
	if !okFirst || !okSecond {
		if !okFirst {
			unresolved = append(unresolved, UnresolvedRef{Kind: RefMenuItem, ID: in.Primary.MenuItemID})
		}
		if !okSecond {
			unresolved = append(unresolved, UnresolvedRef{Kind: RefMenuItem, ID: in.Second.MenuItemID})
		}
		return zeroPrice(in.Quantity, unresolved)
	}

	firstBase := e.basePrice(first, in.Primary.SizeID, &unresolved)
	firstIngredients := e.ingredientsCost(in.Primary.Added, in.Primary.SizeID, &unresolved)
	secondBase := e.basePrice(second, in.Second.SizeID, &unresolved)
	secondIngredients := e.ingredientsCost(in.Second.Added, in.Second.SizeID, &unresolved)

	firstTotal := firstBase.Add(firstIngredients)
	secondTotal := secondBase.Add(secondIngredients)

	raw := firstTotal.Add(secondTotal).Mul(half)
	unit := RoundUpToHalf(raw)

	return ItemPrice{
		UnitPrice: unit,
		Subtotal:  unit.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Quantity:  in.Quantity,
		Breakdown: PriceBreakdown{
			BasePrice:       firstBase,
			IngredientsCost: firstIngredients,
			Split: &SplitBreakdown{
				SecondBasePrice:       secondBase,
				SecondIngredientsCost: secondIngredients,
				RawAverage:            raw,
				RoundingApplied:       !unit.Equal(raw),
			},
		},
		Unresolved: unresolved,
	}
}

// basePrice applies the size rules to the item's effective price: an explicit
// override wins, otherwise the size multiplier, otherwise the price is left as is.
func (e *Engine) basePrice(item MenuItem, sizeID string, unresolved *[]UnresolvedRef) decimal.Decimal {
	price := item.EffectivePrice()
	if sizeID == "" {
		return price
	}
	if a, ok := e.catalog.SizeAssignment(item.ID, sizeID); ok && a.PriceOverride.Valid {
		return a.PriceOverride.Decimal
	}
	if size, ok := e.catalog.Size(sizeID); ok {
		return price.Mul(size.PriceMultiplier)
	}
	*unresolved = append(*unresolved, UnresolvedRef{Kind: RefSize, ID: sizeID})
	return price
}

func (e *Engine) ingredientsCost(added []IngredientSelection, sizeID string, unresolved *[]UnresolvedRef) decimal.Decimal {
	total := decimal.Zero
	for _, sel := range added {
		if sel.Quantity < 1 {
			continue
		}
		ing, ok := e.catalog.Ingredient(sel.IngredientID)
		if !ok {
			*unresolved = append(*unresolved, UnresolvedRef{Kind: RefIngredient, ID: sel.IngredientID})
			continue
		}
		total = total.Add(ing.PriceFor(sizeID).Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}
	return total
}

// RoundUpToHalf rounds d up to the nearest multiple of 0.5: ceil(d*2)/2.
func RoundUpToHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(two).Ceil().Mul(half)
}

func zeroPrice(quantity int, unresolved []UnresolvedRef) ItemPrice {
	return ItemPrice{
		UnitPrice: decimal.Zero,
		Subtotal:  decimal.Zero,
		Quantity:  quantity,
		Breakdown: PriceBreakdown{
			BasePrice:       decimal.Zero,
			IngredientsCost: decimal.Zero,
		},
		Unresolved: unresolved,
	}
}
