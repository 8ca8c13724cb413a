// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/pricewise/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for catalog, settings and order storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateOrganization persists a new organization, or renames it if it exists.
	// The org.ID field will be populated by the store when empty.
	CreateOrganization(ctx context.Context, org *models.Organization) error

	// GetOrganization retrieves an organization by its ID.
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)

	// SaveCatalog upserts every record of the catalog for the organization.
	// Records not present in the catalog are left untouched.
	SaveCatalog(ctx context.Context, orgID string, catalog *models.Catalog) error

	// LoadCatalog reads the organization's full catalog inside a single
	// transaction so the result is a consistent point-in-time snapshot.
	LoadCatalog(ctx context.Context, orgID string) (*models.Catalog, error)

	// GetDeliverySettings returns ErrNotFound if the organization has none.
	GetDeliverySettings(ctx context.Context, orgID string) (*models.DeliverySettings, error)

	// SaveDeliverySettings replaces the organization's delivery settings.
	SaveDeliverySettings(ctx context.Context, settings *models.DeliverySettings) error

	// CreateOrder persists an order and its lines.
	// The order.ID and line IDs are generated when empty.
	CreateOrder(ctx context.Context, order *models.Order) error

	// GetOrder retrieves an order with its lines.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// Close releases any resources held by the store.
	Close() error
}
