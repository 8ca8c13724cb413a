package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/pricewise/internal/models"
	"github.com/mmynk/pricewise/internal/storage"
)

// GetDeliverySettings retrieves an organization's delivery settings and tiers
// in one read transaction, so the tiers always belong to the returned row.
func (s *SQLiteStore) GetDeliverySettings(ctx context.Context, orgID string) (*models.DeliverySettings, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		settings                    = &models.DeliverySettings{OrganizationID: orgID}
		flatFee, beyondFee          string
		threshold                   sql.NullString
		shopLatitude, shopLongitude sql.NullFloat64
	)

	err = tx.QueryRowContext(ctx,
		`SELECT mode, flat_fee, free_delivery_threshold, beyond_tiers_fee, shop_latitude, shop_longitude, updated_at
		 FROM delivery_settings WHERE organization_id = ?`,
		orgID,
	).Scan(&settings.Mode, &flatFee, &threshold, &beyondFee, &shopLatitude, &shopLongitude, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delivery settings for %s: %w", orgID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery settings: %w", err)
	}

	if settings.FlatFee, err = parseDecimal("delivery_settings.flat_fee", flatFee); err != nil {
		return nil, err
	}
	if settings.BeyondTiersFee, err = parseDecimal("delivery_settings.beyond_tiers_fee", beyondFee); err != nil {
		return nil, err
	}
	if settings.FreeDeliveryThreshold, err = parseNullDecimal("delivery_settings.free_delivery_threshold", threshold); err != nil {
		return nil, err
	}
	settings.ShopLatitude = floatPtr(shopLatitude)
	settings.ShopLongitude = floatPtr(shopLongitude)

	if settings.Tiers, err = loadDeliveryTiers(ctx, tx, orgID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settings, nil
}

func loadDeliveryTiers(ctx context.Context, tx *sql.Tx, orgID string) ([]models.DeliveryTier, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT km_ceiling, price FROM delivery_tiers WHERE organization_id = ? ORDER BY position",
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery tiers: %w", err)
	}
	defer rows.Close()

	var tiers []models.DeliveryTier
	for rows.Next() {
		var (
			tier  models.DeliveryTier
			price string
		)
		if err := rows.Scan(&tier.KmCeiling, &price); err != nil {
			return nil, fmt.Errorf("failed to scan delivery tier: %w", err)
		}
		if tier.Price, err = parseDecimal("delivery_tiers.price", price); err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate delivery tiers: %w", err)
	}
	return tiers, nil
}

// SaveDeliverySettings replaces the settings row and all tiers of the organization.
// Tiers keep the order they were given in.
func (s *SQLiteStore) SaveDeliverySettings(ctx context.Context, settings *models.DeliverySettings) error {
	settings.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO delivery_settings
		   (organization_id, mode, flat_fee, free_delivery_threshold, beyond_tiers_fee, shop_latitude, shop_longitude, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(organization_id) DO UPDATE SET
		   mode = excluded.mode,
		   flat_fee = excluded.flat_fee,
		   free_delivery_threshold = excluded.free_delivery_threshold,
		   beyond_tiers_fee = excluded.beyond_tiers_fee,
		   shop_latitude = excluded.shop_latitude,
		   shop_longitude = excluded.shop_longitude,
		   updated_at = excluded.updated_at`,
		settings.OrganizationID, settings.Mode, settings.FlatFee.String(),
		nullDecimalArg(settings.FreeDeliveryThreshold), settings.BeyondTiersFee.String(),
		nullFloatArg(settings.ShopLatitude), nullFloatArg(settings.ShopLongitude), settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert delivery settings: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM delivery_tiers WHERE organization_id = ?", settings.OrganizationID); err != nil {
		return fmt.Errorf("failed to clear delivery tiers: %w", err)
	}
	for i, tier := range settings.Tiers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO delivery_tiers (organization_id, position, km_ceiling, price) VALUES (?, ?, ?, ?)",
			settings.OrganizationID, i, tier.KmCeiling, tier.Price.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert delivery tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
