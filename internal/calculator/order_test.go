package calculator

import (
	"errors"
	"sync"
	"testing"
)

func TestPriceOrder(t *testing.T) {
	shop := Coordinates{Lat: 40.8518, Lon: 14.2681}
	delivery := &DeliveryConfig{
		Mode:                  DeliveryModeRadial,
		FlatFee:               d("3.00"),
		FreeDeliveryThreshold: nd("30.00"),
		Tiers: []RadialTier{
			{KmCeiling: 3, Price: d("2.00")},
			{KmCeiling: 6, Price: d("4.00")},
		},
		BeyondTiersFee: d("6.00"),
		Shop:           &shop,
	}
	engine := NewEngine(testCatalog(), delivery)

	items := []OrderItemInput{
		{Primary: Half{MenuItemID: "margherita", Added: []IngredientSelection{{IngredientID: "extra-cheese", Quantity: 2}}}, Quantity: 1},
		{Primary: Half{MenuItemID: "diavola", SizeID: "large"}, Quantity: 2},
	}

	t.Run("delivery adds the radial fee", func(t *testing.T) {
		got, err := engine.PriceOrder(items, OrderTypeDelivery, pointAtKm(shop, 4.2))
		if err != nil {
			t.Fatalf("PriceOrder failed: %v", err)
		}
		// 8.00 + 2 * 7.50 = 23.00, fee 4.00
		if !got.Subtotal.Equal(d("23.00")) {
			t.Errorf("subtotal = %s, want 23.00", got.Subtotal)
		}
		if !got.DeliveryFee.Equal(d("4.00")) {
			t.Errorf("delivery fee = %s, want 4.00", got.DeliveryFee)
		}
		if !got.Total.Equal(d("27.00")) {
			t.Errorf("total = %s, want 27.00", got.Total)
		}
		if got.Delivery == nil || got.Delivery.Rule != DeliveryRuleRadialTier {
			t.Errorf("delivery quote = %+v, want radial tier", got.Delivery)
		}
	})

	t.Run("takeaway has no fee", func(t *testing.T) {
		got, err := engine.PriceOrder(items, OrderTypeTakeaway, pointAtKm(shop, 4.2))
		if err != nil {
			t.Fatalf("PriceOrder failed: %v", err)
		}
		if !got.DeliveryFee.IsZero() || got.Delivery != nil {
			t.Errorf("delivery fee = %s, want 0", got.DeliveryFee)
		}
		if !got.Total.Equal(d("23.00")) {
			t.Errorf("total = %s, want 23.00", got.Total)
		}
	})

	t.Run("delivery without config has no fee", func(t *testing.T) {
		got, err := NewEngine(testCatalog(), nil).PriceOrder(items, OrderTypeDelivery, nil)
		if err != nil {
			t.Fatalf("PriceOrder failed: %v", err)
		}
		if !got.DeliveryFee.IsZero() {
			t.Errorf("delivery fee = %s, want 0", got.DeliveryFee)
		}
	})

	t.Run("subtotal over threshold waives the fee", func(t *testing.T) {
		big := []OrderItemInput{{Primary: Half{MenuItemID: "margherita"}, Quantity: 6}}
		got, err := engine.PriceOrder(big, OrderTypeDelivery, pointAtKm(shop, 40))
		if err != nil {
			t.Fatalf("PriceOrder failed: %v", err)
		}
		if !got.DeliveryFee.IsZero() {
			t.Errorf("delivery fee = %s, want 0", got.DeliveryFee)
		}
		if !got.Total.Equal(d("36.00")) {
			t.Errorf("total = %s, want 36.00", got.Total)
		}
	})

	t.Run("items keep input order", func(t *testing.T) {
		got, _ := engine.PriceOrder(items, OrderTypeDineIn, nil)
		if len(got.Items) != 2 {
			t.Fatalf("items = %d, want 2", len(got.Items))
		}
		if !got.Items[0].UnitPrice.Equal(d("8.00")) || !got.Items[1].UnitPrice.Equal(d("7.50")) {
			t.Errorf("unexpected order of items: %s, %s", got.Items[0].UnitPrice, got.Items[1].UnitPrice)
		}
	})

	t.Run("empty order", func(t *testing.T) {
		got, err := engine.PriceOrder(nil, OrderTypeDelivery, nil)
		if err != nil {
			t.Fatalf("PriceOrder failed: %v", err)
		}
		// Flat fallback: no destination given.
		if !got.Subtotal.IsZero() || !got.Total.Equal(d("3.00")) {
			t.Errorf("subtotal = %s total = %s, want 0 and 3.00", got.Subtotal, got.Total)
		}
	})
}

func TestPriceOrderDegraded(t *testing.T) {
	items := []OrderItemInput{
		{Primary: Half{MenuItemID: "margherita"}, Quantity: 1},
		{Primary: Half{MenuItemID: "ghost"}, Quantity: 2},
		{Primary: Half{MenuItemID: "marinara", Added: []IngredientSelection{{IngredientID: "truffle", Quantity: 1}}}, Quantity: 1},
	}

	t.Run("lenient mode zero-prices and reports", func(t *testing.T) {
		got, err := NewEngine(testCatalog(), nil).PriceOrder(items, OrderTypeTakeaway, nil)
		if err != nil {
			t.Fatalf("lenient PriceOrder returned error: %v", err)
		}
		if !got.Subtotal.Equal(d("14.00")) {
			t.Errorf("subtotal = %s, want 14.00", got.Subtotal)
		}
		if !got.Degraded() {
			t.Error("expected degraded order")
		}
		refs := got.Unresolved()
		want := []UnresolvedRef{{Kind: RefMenuItem, ID: "ghost"}, {Kind: RefIngredient, ID: "truffle"}}
		if len(refs) != len(want) {
			t.Fatalf("unresolved = %v, want %v", refs, want)
		}
		for i := range want {
			if refs[i] != want[i] {
				t.Errorf("unresolved[%d] = %v, want %v", i, refs[i], want[i])
			}
		}
	})

	t.Run("strict mode returns an error with the total", func(t *testing.T) {
		got, err := NewEngine(testCatalog(), nil, WithStrictReferences()).PriceOrder(items, OrderTypeTakeaway, nil)
		if !errors.Is(err, ErrUnresolvedReference) {
			t.Fatalf("err = %v, want ErrUnresolvedReference", err)
		}
		if !got.Subtotal.Equal(d("14.00")) {
			t.Errorf("subtotal = %s, want 14.00", got.Subtotal)
		}
	})

	t.Run("strict mode accepts clean orders", func(t *testing.T) {
		_, err := NewEngine(testCatalog(), nil, WithStrictReferences()).PriceOrder(items[:1], OrderTypeTakeaway, nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestEngineConcurrentUse(t *testing.T) {
	engine := NewEngine(testCatalog(), &DeliveryConfig{Mode: DeliveryModeFlat, FlatFee: d("3.00")})
	items := []OrderItemInput{
		{Primary: Half{MenuItemID: "marinara"}, Second: &Half{MenuItemID: "quattro-formaggi"}, Quantity: 2},
	}

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			total, _ := engine.PriceOrder(items, OrderTypeDelivery, nil)
			results[i] = total.Total.String()
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != "21" {
			t.Errorf("result[%d] = %s, want 21", i, r)
		}
	}
}
