package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Money columns are TEXT holding exact decimal strings.
// IMPORTANT: organizations must be created BEFORE every table that references it.
const schema = `
CREATE TABLE IF NOT EXISTS organizations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS menu_items (
    organization_id TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    base_price TEXT NOT NULL,
    discounted_price TEXT,
    PRIMARY KEY (organization_id, id),
    FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sizes (
    organization_id TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    price_multiplier TEXT NOT NULL,
    PRIMARY KEY (organization_id, id),
    FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS menu_item_sizes (
    organization_id TEXT NOT NULL,
    menu_item_id TEXT NOT NULL,
    size_id TEXT NOT NULL,
    price_override TEXT,
    PRIMARY KEY (organization_id, menu_item_id, size_id),
    FOREIGN KEY (organization_id, menu_item_id) REFERENCES menu_items(organization_id, id) ON DELETE CASCADE,
    FOREIGN KEY (organization_id, size_id) REFERENCES sizes(organization_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ingredients (
    organization_id TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL,
    default_price TEXT NOT NULL,
    PRIMARY KEY (organization_id, id),
    FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ingredient_size_prices (
    organization_id TEXT NOT NULL,
    ingredient_id TEXT NOT NULL,
    size_id TEXT NOT NULL,
    price TEXT NOT NULL,
    PRIMARY KEY (organization_id, ingredient_id, size_id),
    FOREIGN KEY (organization_id, ingredient_id) REFERENCES ingredients(organization_id, id) ON DELETE CASCADE,
    FOREIGN KEY (organization_id, size_id) REFERENCES sizes(organization_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS delivery_settings (
    organization_id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    flat_fee TEXT NOT NULL,
    free_delivery_threshold TEXT,
    beyond_tiers_fee TEXT NOT NULL,
    shop_latitude REAL,
    shop_longitude REAL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS delivery_tiers (
    organization_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    km_ceiling REAL NOT NULL,
    price TEXT NOT NULL,
    PRIMARY KEY (organization_id, position),
    FOREIGN KEY (organization_id) REFERENCES delivery_settings(organization_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    order_type TEXT NOT NULL,
    subtotal TEXT NOT NULL,
    delivery_fee TEXT NOT NULL,
    total TEXT NOT NULL,
    delivery_rule TEXT NOT NULL DEFAULT '',
    delivery_distance_km REAL,
    delivery_latitude REAL,
    delivery_longitude REAL,
    created_by TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (organization_id) REFERENCES organizations(id)
);

CREATE TABLE IF NOT EXISTS order_lines (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    menu_item_id TEXT NOT NULL,
    size_id TEXT NOT NULL DEFAULT '',
    added TEXT NOT NULL DEFAULT '[]',
    second_menu_item_id TEXT NOT NULL DEFAULT '',
    second_size_id TEXT NOT NULL DEFAULT '',
    second_added TEXT NOT NULL DEFAULT '[]',
    removed TEXT NOT NULL DEFAULT '[]',
    note TEXT NOT NULL DEFAULT '',
    quantity INTEGER NOT NULL,
    unit_price TEXT NOT NULL,
    subtotal TEXT NOT NULL,
    base_price TEXT NOT NULL,
    ingredients_cost TEXT NOT NULL,
    second_base_price TEXT,
    second_ingredients_cost TEXT,
    raw_average TEXT,
    rounding_applied INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_orders_org ON orders(organization_id);
CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
