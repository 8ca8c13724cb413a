package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/pricewise/internal/models"
)

// SaveCatalog upserts menu items, sizes, size assignments and ingredients in
// one transaction. An ingredient's per-size prices are replaced as a whole.
func (s *SQLiteStore) SaveCatalog(ctx context.Context, orgID string, catalog *models.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range catalog.MenuItems {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO menu_items (organization_id, id, name, base_price, discounted_price)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(organization_id, id) DO UPDATE SET
			   name = excluded.name,
			   base_price = excluded.base_price,
			   discounted_price = excluded.discounted_price`,
			orgID, item.ID, item.Name, item.BasePrice.String(), nullDecimalArg(item.DiscountedPrice),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert menu item %s: %w", item.ID, err)
		}
	}

	for _, size := range catalog.Sizes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sizes (organization_id, id, name, price_multiplier)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(organization_id, id) DO UPDATE SET
			   name = excluded.name,
			   price_multiplier = excluded.price_multiplier`,
			orgID, size.ID, size.Name, size.PriceMultiplier.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert size %s: %w", size.ID, err)
		}
	}

	for _, a := range catalog.SizeAssignments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO menu_item_sizes (organization_id, menu_item_id, size_id, price_override)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(organization_id, menu_item_id, size_id) DO UPDATE SET
			   price_override = excluded.price_override`,
			orgID, a.MenuItemID, a.SizeID, nullDecimalArg(a.PriceOverride),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert size assignment %s/%s: %w", a.MenuItemID, a.SizeID, err)
		}
	}

	for _, ing := range catalog.Ingredients {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ingredients (organization_id, id, name, default_price)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(organization_id, id) DO UPDATE SET
			   name = excluded.name,
			   default_price = excluded.default_price`,
			orgID, ing.ID, ing.Name, ing.DefaultPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert ingredient %s: %w", ing.ID, err)
		}

		_, err = tx.ExecContext(ctx,
			"DELETE FROM ingredient_size_prices WHERE organization_id = ? AND ingredient_id = ?",
			orgID, ing.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to clear size prices of %s: %w", ing.ID, err)
		}
		for sizeID, price := range ing.SizePrices {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO ingredient_size_prices (organization_id, ingredient_id, size_id, price) VALUES (?, ?, ?, ?)",
				orgID, ing.ID, sizeID, price.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert size price %s/%s: %w", ing.ID, sizeID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadCatalog reads the whole catalog of an organization in one read
// transaction, so every table reflects the same point in time.
func (s *SQLiteStore) LoadCatalog(ctx context.Context, orgID string) (*models.Catalog, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	catalog := &models.Catalog{}

	if catalog.MenuItems, err = loadMenuItems(ctx, tx, orgID); err != nil {
		return nil, err
	}
	if catalog.Sizes, err = loadSizes(ctx, tx, orgID); err != nil {
		return nil, err
	}
	if catalog.SizeAssignments, err = loadSizeAssignments(ctx, tx, orgID); err != nil {
		return nil, err
	}
	if catalog.Ingredients, err = loadIngredients(ctx, tx, orgID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return catalog, nil
}

func loadMenuItems(ctx context.Context, tx *sql.Tx, orgID string) ([]models.MenuItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, base_price, discounted_price FROM menu_items WHERE organization_id = ? ORDER BY id",
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			item       = models.MenuItem{OrganizationID: orgID}
			base       string
			discounted sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &base, &discounted); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if item.BasePrice, err = parseDecimal("menu_items.base_price", base); err != nil {
			return nil, err
		}
		if item.DiscountedPrice, err = parseNullDecimal("menu_items.discounted_price", discounted); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return items, nil
}

func loadSizes(ctx context.Context, tx *sql.Tx, orgID string) ([]models.Size, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, price_multiplier FROM sizes WHERE organization_id = ? ORDER BY id",
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}
	defer rows.Close()

	var sizes []models.Size
	for rows.Next() {
		var (
			size       = models.Size{OrganizationID: orgID}
			multiplier string
		)
		if err := rows.Scan(&size.ID, &size.Name, &multiplier); err != nil {
			return nil, fmt.Errorf("failed to scan size: %w", err)
		}
		if size.PriceMultiplier, err = parseDecimal("sizes.price_multiplier", multiplier); err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sizes: %w", err)
	}
	return sizes, nil
}

func loadSizeAssignments(ctx context.Context, tx *sql.Tx, orgID string) ([]models.SizeAssignment, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT menu_item_id, size_id, price_override FROM menu_item_sizes
		 WHERE organization_id = ? ORDER BY menu_item_id, size_id`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list size assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.SizeAssignment
	for rows.Next() {
		var (
			a        models.SizeAssignment
			override sql.NullString
		)
		if err := rows.Scan(&a.MenuItemID, &a.SizeID, &override); err != nil {
			return nil, fmt.Errorf("failed to scan size assignment: %w", err)
		}
		if a.PriceOverride, err = parseNullDecimal("menu_item_sizes.price_override", override); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate size assignments: %w", err)
	}
	return assignments, nil
}

func loadIngredients(ctx context.Context, tx *sql.Tx, orgID string) ([]models.Ingredient, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT id, name, default_price FROM ingredients WHERE organization_id = ? ORDER BY id",
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	var ingredients []models.Ingredient
	index := make(map[string]int)
	for rows.Next() {
		var (
			ing   = models.Ingredient{OrganizationID: orgID}
			price string
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		if ing.DefaultPrice, err = parseDecimal("ingredients.default_price", price); err != nil {
			rows.Close()
			return nil, err
		}
		index[ing.ID] = len(ingredients)
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	rows.Close()

	priceRows, err := tx.QueryContext(ctx,
		"SELECT ingredient_id, size_id, price FROM ingredient_size_prices WHERE organization_id = ?",
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient size prices: %w", err)
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var ingredientID, sizeID, price string
		if err := priceRows.Scan(&ingredientID, &sizeID, &price); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient size price: %w", err)
		}
		i, ok := index[ingredientID]
		if !ok {
			continue
		}
		p, err := parseDecimal("ingredient_size_prices.price", price)
		if err != nil {
			return nil, err
		}
		if ingredients[i].SizePrices == nil {
			ingredients[i].SizePrices = make(map[string]decimal.Decimal)
		}
		ingredients[i].SizePrices[sizeID] = p
	}
	if err := priceRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredient size prices: %w", err)
	}
	return ingredients, nil
}
