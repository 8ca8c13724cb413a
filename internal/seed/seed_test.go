package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pricewise/internal/storage/sqlite"
)

const testSeed = `
organizations:
  - id: napoli
    name: Pizzeria Napoli
    catalog:
      menu_items:
        - {id: margherita, name: Margherita, base_price: "6.00"}
        - {id: diavola, name: Diavola, base_price: "7.50", discounted_price: "6.90"}
      sizes:
        - {id: large, name: Large, multiplier: "1.5"}
      size_assignments:
        - {menu_item_id: margherita, size_id: large}
        - {menu_item_id: diavola, size_id: large, price_override: "10.00"}
      ingredients:
        - id: mozzarella
          name: Mozzarella
          price: "1.00"
          size_prices: {large: "1.50"}
    delivery:
      mode: radial
      flat_fee: "3.00"
      free_delivery_threshold: "30.00"
      beyond_tiers_fee: "6.00"
      shop: {lat: 40.8518, lon: 14.2681}
      tiers:
        - {km: 3, price: "2.00"}
        - {km: 6, price: "4.00"}
  - id: roma
    catalog:
      menu_items:
        - {id: margherita, name: Margherita, base_price: "5.00"}
`

func TestApply(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	f, err := Parse([]byte(testSeed))
	require.NoError(t, err)
	require.NoError(t, f.Apply(ctx, store))

	// Applying twice only updates
	require.NoError(t, f.Apply(ctx, store))

	catalog, err := store.LoadCatalog(ctx, "napoli")
	require.NoError(t, err)
	require.Len(t, catalog.MenuItems, 2)
	assert.True(t, catalog.MenuItems[0].DiscountedPrice.Decimal.Equal(decimal.RequireFromString("6.90")))
	require.Len(t, catalog.Ingredients, 1)
	assert.True(t, catalog.Ingredients[0].SizePrices["large"].Equal(decimal.RequireFromString("1.50")))

	settings, err := store.GetDeliverySettings(ctx, "napoli")
	require.NoError(t, err)
	assert.Equal(t, "radial", settings.Mode)
	assert.Len(t, settings.Tiers, 2)
	require.NotNil(t, settings.ShopLatitude)
	assert.Equal(t, 40.8518, *settings.ShopLatitude)

	org, err := store.GetOrganization(ctx, "roma")
	require.NoError(t, err)
	assert.Equal(t, "roma", org.Name, "name defaults to the id")

	_, err = store.GetDeliverySettings(ctx, "roma")
	assert.Error(t, err, "roma has no delivery section")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing organization id",
			yaml: "organizations:\n  - name: Nameless\n",
		},
		{
			name: "malformed yaml",
			yaml: "organizations: [",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApplyRejectsBadAmounts(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unparseable price",
			yaml: `
organizations:
  - id: napoli
    catalog:
      menu_items:
        - {id: margherita, base_price: "six"}
`,
		},
		{
			name: "discount above base",
			yaml: `
organizations:
  - id: napoli
    catalog:
      menu_items:
        - {id: margherita, base_price: "6.00", discounted_price: "7.00"}
`,
		},
		{
			name: "zero multiplier",
			yaml: `
organizations:
  - id: napoli
    catalog:
      sizes:
        - {id: large, multiplier: "0"}
`,
		},
		{
			name: "negative ingredient price",
			yaml: `
organizations:
  - id: napoli
    catalog:
      ingredients:
        - {id: basil, price: "-0.30"}
`,
		},
		{
			name: "NaN tier distance",
			yaml: `
organizations:
  - id: napoli
    delivery:
      mode: radial
      tiers:
        - {km: .nan, price: "2.00"}
`,
		},
		{
			name: "unknown delivery mode",
			yaml: `
organizations:
  - id: napoli
    delivery:
      mode: drone
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := sqlite.New(filepath.Join(t.TempDir(), "seed.db"))
			require.NoError(t, err)
			defer store.Close()

			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Error(t, f.Apply(context.Background(), store))

			// Nothing is written for a rejected organization
			_, err = store.GetOrganization(context.Background(), "napoli")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	t.Setenv("SEED_SHOP_NAME", "Da Michele")
	require.NoError(t, os.WriteFile(path, []byte("organizations:\n  - id: michele\n    name: ${SEED_SHOP_NAME}\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Organizations, 1)
	assert.Equal(t, "Da Michele", f.Organizations[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
