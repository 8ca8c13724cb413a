package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/pricewise/internal/calculator"
	"github.com/mmynk/pricewise/internal/models"
)

// Conversions between stored records, the pricing engine and the API types.

func catalogSnapshot(c *models.Catalog) *calculator.Catalog {
	items := make([]calculator.MenuItem, len(c.MenuItems))
	for i, m := range c.MenuItems {
		items[i] = calculator.MenuItem{ID: m.ID, BasePrice: m.BasePrice, DiscountedPrice: m.DiscountedPrice}
	}
	sizes := make([]calculator.Size, len(c.Sizes))
	for i, s := range c.Sizes {
		sizes[i] = calculator.Size{ID: s.ID, PriceMultiplier: s.PriceMultiplier}
	}
	assignments := make([]calculator.SizeAssignment, len(c.SizeAssignments))
	for i, a := range c.SizeAssignments {
		assignments[i] = calculator.SizeAssignment{MenuItemID: a.MenuItemID, SizeID: a.SizeID, PriceOverride: a.PriceOverride}
	}
	ingredients := make([]calculator.Ingredient, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		ingredients[i] = calculator.Ingredient{ID: ing.ID, DefaultPrice: ing.DefaultPrice, SizePrices: ing.SizePrices}
	}
	return calculator.NewCatalog(items, sizes, assignments, ingredients)
}

func deliveryConfig(s *models.DeliverySettings) *calculator.DeliveryConfig {
	cfg := &calculator.DeliveryConfig{
		Mode:                  calculator.DeliveryMode(s.Mode),
		FlatFee:               s.FlatFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
		BeyondTiersFee:        s.BeyondTiersFee,
		Tiers:                 make([]calculator.RadialTier, len(s.Tiers)),
	}
	for i, t := range s.Tiers {
		cfg.Tiers[i] = calculator.RadialTier{KmCeiling: t.KmCeiling, Price: t.Price}
	}
	if s.ShopLatitude != nil && s.ShopLongitude != nil {
		cfg.Shop = &calculator.Coordinates{Lat: *s.ShopLatitude, Lon: *s.ShopLongitude}
	}
	return cfg
}

func linePrice(p calculator.ItemPrice) LinePrice {
	lp := LinePrice{
		UnitPrice:       p.UnitPrice,
		Subtotal:        p.Subtotal,
		Quantity:        p.Quantity,
		BasePrice:       p.Breakdown.BasePrice,
		IngredientsCost: p.Breakdown.IngredientsCost,
		Unresolved:      p.Unresolved,
	}
	if split := p.Breakdown.Split; split != nil {
		lp.Split = &SplitDetail{
			SecondBasePrice:       split.SecondBasePrice,
			SecondIngredientsCost: split.SecondIngredientsCost,
			RawAverage:            split.RawAverage,
			RoundingApplied:       split.RoundingApplied,
		}
	}
	return lp
}

func priceOrderResponse(total calculator.OrderTotal) *PriceOrderResponse {
	resp := &PriceOrderResponse{
		Items:       make([]LinePrice, len(total.Items)),
		Subtotal:    total.Subtotal,
		DeliveryFee: total.DeliveryFee,
		Total:       total.Total,
		Unresolved:  total.Unresolved(),
	}
	for i, item := range total.Items {
		resp.Items[i] = linePrice(item)
	}
	if total.Delivery != nil {
		resp.Delivery = &DeliveryDetail{Rule: total.Delivery.Rule, DistanceKm: total.Delivery.DistanceKm}
	}
	return resp
}

// newOrder builds the record to persist. Only engine-computed amounts are used.
func newOrder(orgID string, req *SubmitOrderRequest, total calculator.OrderTotal) *models.Order {
	order := &models.Order{
		OrganizationID: orgID,
		OrderType:      string(req.OrderType),
		Lines:          make([]models.OrderLine, len(req.Items)),
		Subtotal:       total.Subtotal,
		DeliveryFee:    total.DeliveryFee,
		Total:          total.Total,
	}
	for i, in := range req.Items {
		order.Lines[i] = orderLine(in, total.Items[i])
	}
	if total.Delivery != nil {
		order.DeliveryRule = string(total.Delivery.Rule)
		order.DeliveryDistanceKm = total.Delivery.DistanceKm
	}
	if req.Destination != nil {
		lat, lon := req.Destination.Lat, req.Destination.Lon
		order.DeliveryLatitude, order.DeliveryLongitude = &lat, &lon
	}
	return order
}

func orderLine(in calculator.OrderItemInput, price calculator.ItemPrice) models.OrderLine {
	line := models.OrderLine{
		MenuItemID:      in.Primary.MenuItemID,
		SizeID:          in.Primary.SizeID,
		Added:           addedIngredients(in.Primary.Added),
		Removed:         in.Removed,
		Note:            in.Note,
		Quantity:        price.Quantity,
		UnitPrice:       price.UnitPrice,
		Subtotal:        price.Subtotal,
		BasePrice:       price.Breakdown.BasePrice,
		IngredientsCost: price.Breakdown.IngredientsCost,
	}
	if in.IsSplit() {
		line.SecondMenuItemID = in.Second.MenuItemID
		line.SecondSizeID = in.Second.SizeID
		line.SecondAdded = addedIngredients(in.Second.Added)
	}
	if split := price.Breakdown.Split; split != nil {
		line.SecondBasePrice = decimal.NewNullDecimal(split.SecondBasePrice)
		line.SecondIngredientsCost = decimal.NewNullDecimal(split.SecondIngredientsCost)
		line.RawAverage = decimal.NewNullDecimal(split.RawAverage)
		line.RoundingApplied = split.RoundingApplied
	}
	return line
}

func addedIngredients(sel []calculator.IngredientSelection) []models.AddedIngredient {
	if len(sel) == 0 {
		return nil
	}
	added := make([]models.AddedIngredient, len(sel))
	for i, s := range sel {
		added[i] = models.AddedIngredient{IngredientID: s.IngredientID, Quantity: s.Quantity}
	}
	return added
}

func selections(added []models.AddedIngredient) []calculator.IngredientSelection {
	if len(added) == 0 {
		return nil
	}
	sel := make([]calculator.IngredientSelection, len(added))
	for i, a := range added {
		sel[i] = calculator.IngredientSelection{IngredientID: a.IngredientID, Quantity: a.Quantity}
	}
	return sel
}

func orderView(o *models.Order) Order {
	view := Order{
		ID:             o.ID,
		OrganizationID: o.OrganizationID,
		OrderType:      calculator.OrderType(o.OrderType),
		Lines:          make([]OrderLine, len(o.Lines)),
		Subtotal:       o.Subtotal,
		DeliveryFee:    o.DeliveryFee,
		Total:          o.Total,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
	}
	for i, line := range o.Lines {
		view.Lines[i] = orderLineView(line)
	}
	if o.DeliveryRule != "" {
		view.Delivery = &DeliveryDetail{Rule: calculator.DeliveryRule(o.DeliveryRule), DistanceKm: o.DeliveryDistanceKm}
	}
	if o.DeliveryLatitude != nil && o.DeliveryLongitude != nil {
		view.Destination = &calculator.Coordinates{Lat: *o.DeliveryLatitude, Lon: *o.DeliveryLongitude}
	}
	return view
}

func orderLineView(line models.OrderLine) OrderLine {
	view := OrderLine{
		Item: calculator.OrderItemInput{
			Primary:  calculator.Half{MenuItemID: line.MenuItemID, SizeID: line.SizeID, Added: selections(line.Added)},
			Removed:  line.Removed,
			Quantity: line.Quantity,
			Note:     line.Note,
		},
		Price: LinePrice{
			UnitPrice:       line.UnitPrice,
			Subtotal:        line.Subtotal,
			Quantity:        line.Quantity,
			BasePrice:       line.BasePrice,
			IngredientsCost: line.IngredientsCost,
		},
	}
	if line.IsSplit() {
		view.Item.Second = &calculator.Half{MenuItemID: line.SecondMenuItemID, SizeID: line.SecondSizeID, Added: selections(line.SecondAdded)}
		view.Price.Split = &SplitDetail{
			SecondBasePrice:       line.SecondBasePrice.Decimal,
			SecondIngredientsCost: line.SecondIngredientsCost.Decimal,
			RawAverage:            line.RawAverage.Decimal,
			RoundingApplied:       line.RoundingApplied,
		}
	}
	return view
}

func settingsView(s *models.DeliverySettings) DeliverySettings {
	view := DeliverySettings{
		Mode:                  s.Mode,
		FlatFee:               s.FlatFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
		BeyondTiersFee:        s.BeyondTiersFee,
		UpdatedAt:             s.UpdatedAt,
	}
	for _, t := range s.Tiers {
		view.Tiers = append(view.Tiers, DeliveryTier{KmCeiling: t.KmCeiling, Price: t.Price})
	}
	if s.ShopLatitude != nil && s.ShopLongitude != nil {
		view.Shop = &calculator.Coordinates{Lat: *s.ShopLatitude, Lon: *s.ShopLongitude}
	}
	return view
}

func settingsModel(orgID string, v DeliverySettings) *models.DeliverySettings {
	s := &models.DeliverySettings{
		OrganizationID:        orgID,
		Mode:                  v.Mode,
		FlatFee:               v.FlatFee,
		FreeDeliveryThreshold: v.FreeDeliveryThreshold,
		BeyondTiersFee:        v.BeyondTiersFee,
	}
	for _, t := range v.Tiers {
		s.Tiers = append(s.Tiers, models.DeliveryTier{KmCeiling: t.KmCeiling, Price: t.Price})
	}
	if v.Shop != nil {
		lat, lon := v.Shop.Lat, v.Shop.Lon
		s.ShopLatitude, s.ShopLongitude = &lat, &lon
	}
	return s
}
