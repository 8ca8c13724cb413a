package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pricewise/internal/models"
	"github.com/mmynk/pricewise/internal/storage"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func seedOrganization(t *testing.T, store *SQLiteStore, id string) {
	t.Helper()
	require.NoError(t, store.CreateOrganization(context.Background(), &models.Organization{ID: id, Name: "Pizzeria " + id}))
}

func testCatalog() *models.Catalog {
	return &models.Catalog{
		MenuItems: []models.MenuItem{
			{ID: "margherita", Name: "Margherita", BasePrice: d("6.00")},
			{ID: "diavola", Name: "Diavola", BasePrice: d("7.50"), DiscountedPrice: decimal.NewNullDecimal(d("6.90"))},
		},
		Sizes: []models.Size{
			{ID: "large", Name: "Large", PriceMultiplier: d("1.5")},
		},
		SizeAssignments: []models.SizeAssignment{
			{MenuItemID: "margherita", SizeID: "large"},
			{MenuItemID: "diavola", SizeID: "large", PriceOverride: decimal.NewNullDecimal(d("10.00"))},
		},
		Ingredients: []models.Ingredient{
			{ID: "mozzarella", Name: "Mozzarella", DefaultPrice: d("1.00"), SizePrices: map[string]decimal.Decimal{"large": d("1.50")}},
			{ID: "basil", Name: "Basil", DefaultPrice: d("0.30")},
		},
	}
}

func TestOrganizations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateOrganization generates ID", func(t *testing.T) {
		org := &models.Organization{Name: "Vittoria"}
		require.NoError(t, store.CreateOrganization(ctx, org))
		assert.NotEmpty(t, org.ID)
		assert.NotZero(t, org.CreatedAt)

		got, err := store.GetOrganization(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Vittoria", got.Name)
	})

	t.Run("CreateOrganization renames existing", func(t *testing.T) {
		require.NoError(t, store.CreateOrganization(ctx, &models.Organization{ID: "napoli", Name: "Old"}))
		require.NoError(t, store.CreateOrganization(ctx, &models.Organization{ID: "napoli", Name: "New"}))

		got, err := store.GetOrganization(ctx, "napoli")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)
	})

	t.Run("GetOrganization not found", func(t *testing.T) {
		_, err := store.GetOrganization(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCatalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrganization(t, store, "napoli")
	seedOrganization(t, store, "roma")

	require.NoError(t, store.SaveCatalog(ctx, "napoli", testCatalog()))

	t.Run("LoadCatalog round trips every record", func(t *testing.T) {
		got, err := store.LoadCatalog(ctx, "napoli")
		require.NoError(t, err)

		require.Len(t, got.MenuItems, 2)
		// Ordered by id
		assert.Equal(t, "diavola", got.MenuItems[0].ID)
		assert.True(t, got.MenuItems[0].DiscountedPrice.Valid)
		assert.True(t, got.MenuItems[0].DiscountedPrice.Decimal.Equal(d("6.90")))
		assert.False(t, got.MenuItems[1].DiscountedPrice.Valid)
		assert.True(t, got.MenuItems[1].BasePrice.Equal(d("6.00")))
		assert.Equal(t, "napoli", got.MenuItems[1].OrganizationID)

		require.Len(t, got.Sizes, 1)
		assert.True(t, got.Sizes[0].PriceMultiplier.Equal(d("1.5")))

		require.Len(t, got.SizeAssignments, 2)
		assert.Equal(t, "diavola", got.SizeAssignments[0].MenuItemID)
		assert.True(t, got.SizeAssignments[0].PriceOverride.Decimal.Equal(d("10.00")))
		assert.False(t, got.SizeAssignments[1].PriceOverride.Valid)

		require.Len(t, got.Ingredients, 2)
		assert.Equal(t, "basil", got.Ingredients[0].ID)
		assert.Empty(t, got.Ingredients[0].SizePrices)
		assert.True(t, got.Ingredients[1].SizePrices["large"].Equal(d("1.50")))
	})

	t.Run("catalogs are scoped by organization", func(t *testing.T) {
		got, err := store.LoadCatalog(ctx, "roma")
		require.NoError(t, err)
		assert.Empty(t, got.MenuItems)
		assert.Empty(t, got.Ingredients)
	})

	t.Run("SaveCatalog updates existing records", func(t *testing.T) {
		update := &models.Catalog{
			MenuItems: []models.MenuItem{{ID: "margherita", Name: "Margherita", BasePrice: d("6.50")}},
			Ingredients: []models.Ingredient{
				{ID: "mozzarella", Name: "Mozzarella", DefaultPrice: d("1.20")},
			},
		}
		require.NoError(t, store.SaveCatalog(ctx, "napoli", update))

		got, err := store.LoadCatalog(ctx, "napoli")
		require.NoError(t, err)
		require.Len(t, got.MenuItems, 2)
		assert.True(t, got.MenuItems[1].BasePrice.Equal(d("6.50")))
		assert.True(t, got.Ingredients[1].DefaultPrice.Equal(d("1.20")))
		assert.Empty(t, got.Ingredients[1].SizePrices, "size prices are replaced with the ingredient")
	})

	t.Run("assignment to unknown size is rejected", func(t *testing.T) {
		bad := &models.Catalog{SizeAssignments: []models.SizeAssignment{{MenuItemID: "margherita", SizeID: "giant"}}}
		assert.Error(t, store.SaveCatalog(ctx, "napoli", bad))
	})
}

func TestDeliverySettings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrganization(t, store, "napoli")

	_, err := store.GetDeliverySettings(ctx, "napoli")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	lat, lon := 40.8518, 14.2681
	settings := &models.DeliverySettings{
		OrganizationID:        "napoli",
		Mode:                  "radial",
		FlatFee:               d("3.00"),
		FreeDeliveryThreshold: decimal.NewNullDecimal(d("30.00")),
		Tiers: []models.DeliveryTier{
			{KmCeiling: 6, Price: d("4.00")},
			{KmCeiling: 3, Price: d("2.00")},
		},
		BeyondTiersFee: d("6.00"),
		ShopLatitude:   &lat,
		ShopLongitude:  &lon,
	}
	require.NoError(t, store.SaveDeliverySettings(ctx, settings))
	assert.NotZero(t, settings.UpdatedAt)

	got, err := store.GetDeliverySettings(ctx, "napoli")
	require.NoError(t, err)
	assert.Equal(t, "radial", got.Mode)
	assert.True(t, got.FlatFee.Equal(d("3.00")))
	assert.True(t, got.FreeDeliveryThreshold.Decimal.Equal(d("30.00")))
	assert.True(t, got.BeyondTiersFee.Equal(d("6.00")))
	require.NotNil(t, got.ShopLatitude)
	assert.Equal(t, lat, *got.ShopLatitude)
	require.Len(t, got.Tiers, 2)
	assert.Equal(t, 6.0, got.Tiers[0].KmCeiling, "tiers keep their stored order")

	t.Run("save replaces tiers and clears optional fields", func(t *testing.T) {
		flat := &models.DeliverySettings{OrganizationID: "napoli", Mode: "flat", FlatFee: d("2.50"), BeyondTiersFee: d("0")}
		require.NoError(t, store.SaveDeliverySettings(ctx, flat))

		got, err := store.GetDeliverySettings(ctx, "napoli")
		require.NoError(t, err)
		assert.Equal(t, "flat", got.Mode)
		assert.Empty(t, got.Tiers)
		assert.False(t, got.FreeDeliveryThreshold.Valid)
		assert.Nil(t, got.ShopLatitude)
	})
}

func TestDeliverySettingsReadsAreConsistent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrganization(t, store, "napoli")

	flat := func() *models.DeliverySettings {
		return &models.DeliverySettings{OrganizationID: "napoli", Mode: "flat", FlatFee: d("2.50"), BeyondTiersFee: d("0")}
	}
	radial := func() *models.DeliverySettings {
		return &models.DeliverySettings{
			OrganizationID: "napoli",
			Mode:           "radial",
			FlatFee:        d("3.00"),
			Tiers: []models.DeliveryTier{
				{KmCeiling: 3, Price: d("2.00")},
				{KmCeiling: 6, Price: d("4.00")},
			},
			BeyondTiersFee: d("6.00"),
		}
	}
	require.NoError(t, store.SaveDeliverySettings(ctx, flat()))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			next := flat()
			if i%2 == 0 {
				next = radial()
			}
			if err := store.SaveDeliverySettings(ctx, next); err != nil {
				t.Errorf("SaveDeliverySettings failed: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		got, err := store.GetDeliverySettings(ctx, "napoli")
		require.NoError(t, err)
		// A radial row always comes with its two tiers, a flat row with none
		if got.Mode == "radial" {
			assert.Len(t, got.Tiers, 2)
		} else {
			assert.Empty(t, got.Tiers)
		}
	}
	wg.Wait()
}

func TestOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedOrganization(t, store, "napoli")

	distance, lat, lon := 4.2, 40.89, 14.27
	order := &models.Order{
		OrganizationID:     "napoli",
		OrderType:          "delivery",
		Subtotal:           d("27.00"),
		DeliveryFee:        d("4.00"),
		Total:              d("31.00"),
		DeliveryRule:       "radial_tier",
		DeliveryDistanceKm: &distance,
		DeliveryLatitude:   &lat,
		DeliveryLongitude:  &lon,
		Lines: []models.OrderLine{
			{
				MenuItemID:      "margherita",
				Added:           []models.AddedIngredient{{IngredientID: "mozzarella", Quantity: 2}},
				Removed:         []string{"basil"},
				Note:            "well done",
				Quantity:        1,
				UnitPrice:       d("8.00"),
				Subtotal:        d("8.00"),
				BasePrice:       d("6.00"),
				IngredientsCost: d("2.00"),
			},
			{
				MenuItemID:            "margherita",
				SecondMenuItemID:      "diavola",
				SecondSizeID:          "large",
				Quantity:              2,
				UnitPrice:             d("9.50"),
				Subtotal:              d("19.00"),
				BasePrice:             d("6.00"),
				IngredientsCost:       d("0"),
				SecondBasePrice:       decimal.NewNullDecimal(d("10.00")),
				SecondIngredientsCost: decimal.NewNullDecimal(d("0")),
				RawAverage:            decimal.NewNullDecimal(d("8.00")),
				RoundingApplied:       false,
			},
		},
	}

	require.NoError(t, store.CreateOrder(ctx, order))
	assert.NotEmpty(t, order.ID)
	assert.NotZero(t, order.CreatedAt)
	assert.NotEmpty(t, order.Lines[0].ID)

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "delivery", got.OrderType)
	assert.True(t, got.Total.Equal(d("31.00")))
	assert.True(t, got.DeliveryFee.Equal(d("4.00")))
	assert.Equal(t, "radial_tier", got.DeliveryRule)
	require.NotNil(t, got.DeliveryDistanceKm)
	assert.Equal(t, 4.2, *got.DeliveryDistanceKm)

	require.Len(t, got.Lines, 2)
	first := got.Lines[0]
	assert.Equal(t, []models.AddedIngredient{{IngredientID: "mozzarella", Quantity: 2}}, first.Added)
	assert.Equal(t, []string{"basil"}, first.Removed)
	assert.Equal(t, "well done", first.Note)
	assert.False(t, first.IsSplit())
	assert.False(t, first.RawAverage.Valid)

	second := got.Lines[1]
	assert.True(t, second.IsSplit())
	assert.Equal(t, 1, second.Position)
	assert.True(t, second.SecondBasePrice.Decimal.Equal(d("10.00")))
	assert.True(t, second.RawAverage.Decimal.Equal(d("8.00")))
	assert.Empty(t, second.Added)

	t.Run("GetOrder not found", func(t *testing.T) {
		_, err := store.GetOrder(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
