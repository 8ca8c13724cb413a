// Package seed loads organizations, catalogs and delivery settings from a
// YAML file and writes them to the store.
//
// Amounts are written as quoted strings so they are parsed as exact decimals:
//
//	organizations:
//	  - id: napoli
//	    name: Pizzeria Napoli
//	    catalog:
//	      menu_items:
//	        - {id: margherita, name: Margherita, base_price: "6.00"}
//	    delivery:
//	      mode: flat
//	      flat_fee: "2.50"
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/pricewise/internal/models"
	"github.com/mmynk/pricewise/internal/storage"
)

// File is the top level of a seed file.
type File struct {
	Organizations []Organization `yaml:"organizations"`
}

// Organization is one tenant with its catalog and delivery settings.
type Organization struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Catalog  Catalog   `yaml:"catalog"`
	Delivery *Delivery `yaml:"delivery"`
}

type Catalog struct {
	MenuItems       []MenuItem       `yaml:"menu_items"`
	Sizes           []Size           `yaml:"sizes"`
	SizeAssignments []SizeAssignment `yaml:"size_assignments"`
	Ingredients     []Ingredient     `yaml:"ingredients"`
}

type MenuItem struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	BasePrice       string `yaml:"base_price"`
	DiscountedPrice string `yaml:"discounted_price"`
}

type Size struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Multiplier string `yaml:"multiplier"`
}

type SizeAssignment struct {
	MenuItemID    string `yaml:"menu_item_id"`
	SizeID        string `yaml:"size_id"`
	PriceOverride string `yaml:"price_override"`
}

type Ingredient struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Price      string            `yaml:"price"`
	SizePrices map[string]string `yaml:"size_prices"`
}

type Delivery struct {
	Mode                  string    `yaml:"mode"`
	FlatFee               string    `yaml:"flat_fee"`
	FreeDeliveryThreshold string    `yaml:"free_delivery_threshold"`
	BeyondTiersFee        string    `yaml:"beyond_tiers_fee"`
	Tiers                 []Tier    `yaml:"tiers"`
	Shop                  *Location `yaml:"shop"`
}

type Tier struct {
	KmCeiling float64 `yaml:"km"`
	Price     string  `yaml:"price"`
}

type Location struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Load reads and parses a seed file. Environment variables are expanded the
// same way as in the config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes seed YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for i, org := range f.Organizations {
		if org.ID == "" {
			return nil, fmt.Errorf("organization %d has no id", i)
		}
	}
	return &f, nil
}

// Apply converts every organization and writes it to the store. Existing
// records with the same ids are updated, so applying a file twice is safe.
func (f *File) Apply(ctx context.Context, store storage.Store) error {
	for _, org := range f.Organizations {
		catalog, err := org.Catalog.toModel()
		if err != nil {
			return fmt.Errorf("organization %s: %w", org.ID, err)
		}

		var settings *models.DeliverySettings
		if org.Delivery != nil {
			if settings, err = org.Delivery.toModel(org.ID); err != nil {
				return fmt.Errorf("organization %s: %w", org.ID, err)
			}
		}

		name := org.Name
		if name == "" {
			name = org.ID
		}
		if err := store.CreateOrganization(ctx, &models.Organization{ID: org.ID, Name: name}); err != nil {
			return err
		}
		if err := store.SaveCatalog(ctx, org.ID, catalog); err != nil {
			return err
		}
		if settings != nil {
			if err := store.SaveDeliverySettings(ctx, settings); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c Catalog) toModel() (*models.Catalog, error) {
	catalog := &models.Catalog{}
	var err error

	for _, m := range c.MenuItems {
		item := models.MenuItem{ID: m.ID, Name: m.Name}
		if item.BasePrice, err = parseAmount("menu item "+m.ID+" base_price", m.BasePrice); err != nil {
			return nil, err
		}
		if item.DiscountedPrice, err = parseOptionalAmount("menu item "+m.ID+" discounted_price", m.DiscountedPrice); err != nil {
			return nil, err
		}
		if item.DiscountedPrice.Valid && item.DiscountedPrice.Decimal.GreaterThan(item.BasePrice) {
			return nil, fmt.Errorf("menu item %s: discounted price exceeds base price", m.ID)
		}
		catalog.MenuItems = append(catalog.MenuItems, item)
	}

	for _, s := range c.Sizes {
		size := models.Size{ID: s.ID, Name: s.Name}
		if size.PriceMultiplier, err = parseAmount("size "+s.ID+" multiplier", s.Multiplier); err != nil {
			return nil, err
		}
		if !size.PriceMultiplier.IsPositive() {
			return nil, fmt.Errorf("size %s: multiplier must be positive", s.ID)
		}
		catalog.Sizes = append(catalog.Sizes, size)
	}

	for _, a := range c.SizeAssignments {
		assignment := models.SizeAssignment{MenuItemID: a.MenuItemID, SizeID: a.SizeID}
		field := "size assignment " + a.MenuItemID + "/" + a.SizeID + " price_override"
		if assignment.PriceOverride, err = parseOptionalAmount(field, a.PriceOverride); err != nil {
			return nil, err
		}
		catalog.SizeAssignments = append(catalog.SizeAssignments, assignment)
	}

	for _, in := range c.Ingredients {
		ing := models.Ingredient{ID: in.ID, Name: in.Name}
		if ing.DefaultPrice, err = parseAmount("ingredient "+in.ID+" price", in.Price); err != nil {
			return nil, err
		}
		if len(in.SizePrices) > 0 {
			ing.SizePrices = make(map[string]decimal.Decimal, len(in.SizePrices))
			for sizeID, raw := range in.SizePrices {
				if ing.SizePrices[sizeID], err = parseAmount("ingredient "+in.ID+" size "+sizeID, raw); err != nil {
					return nil, err
				}
			}
		}
		catalog.Ingredients = append(catalog.Ingredients, ing)
	}

	return catalog, nil
}

func (d Delivery) toModel(orgID string) (*models.DeliverySettings, error) {
	settings := &models.DeliverySettings{OrganizationID: orgID, Mode: d.Mode}
	var err error

	if settings.FlatFee, err = parseOptionalZero("flat_fee", d.FlatFee); err != nil {
		return nil, err
	}
	if settings.BeyondTiersFee, err = parseOptionalZero("beyond_tiers_fee", d.BeyondTiersFee); err != nil {
		return nil, err
	}
	if settings.FreeDeliveryThreshold, err = parseOptionalAmount("free_delivery_threshold", d.FreeDeliveryThreshold); err != nil {
		return nil, err
	}
	for i, t := range d.Tiers {
		price, err := parseAmount(fmt.Sprintf("tier %d price", i), t.Price)
		if err != nil {
			return nil, err
		}
		settings.Tiers = append(settings.Tiers, models.DeliveryTier{KmCeiling: t.KmCeiling, Price: price})
	}
	if d.Shop != nil {
		lat, lon := d.Shop.Lat, d.Shop.Lon
		settings.ShopLatitude, settings.ShopLongitude = &lat, &lon
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

func parseOptionalAmount(field, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseAmount(field, raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func parseOptionalZero(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, raw)
}
