package models

// Organization is a tenant: one shop with its own catalog, settings and orders.
type Organization struct {
	// ID is the unique identifier for the organization.
	// Seeded organizations use readable slugs; others get a UUID.
	ID string

	// Name is the display name of the shop.
	Name string

	// CreatedAt is the Unix timestamp when the organization was created.
	CreatedAt int64
}

// Admin is an operator allowed to change an organization's settings.
// Admins are configured, not stored.
type Admin struct {
	ID             string
	Email          string
	OrganizationID string

	// PasswordHash is a bcrypt hash of the admin password.
	PasswordHash string
}
