// Package models defines the persisted records of the pricing service.
//
// # Catalog
//
// The catalog is stored per organization and loaded as a whole into an
// in-memory snapshot for every pricing request:
//   - MenuItem: a product with a base price and optional discounted price
//   - Size: a size variant with a price multiplier
//   - SizeAssignment: links a menu item to a size, optionally overriding its price
//   - Ingredient: an addable extra with a default price and per-size prices
//
// # Settings
//
// DeliverySettings holds the administrative delivery fee configuration of an
// organization (flat or radial tiers, free-delivery threshold, shop location).
//
// # Orders
//
// Order and OrderLine store the authoritative, server-computed amounts. No
// client-supplied price is ever written to these records.
//
// # Design Principles
//
// 1. **Money is exact**: every amount is a decimal.Decimal, stored as TEXT
// 2. **Tenant scoped**: every catalog row, setting and order carries an OrganizationID
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
