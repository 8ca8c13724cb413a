package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pricewise/internal/models"
	"github.com/mmynk/pricewise/internal/storage"
)

// CreateOrder persists an order and its lines in one transaction.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders
		   (id, organization_id, order_type, subtotal, delivery_fee, total, delivery_rule,
		    delivery_distance_km, delivery_latitude, delivery_longitude, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrganizationID, order.OrderType,
		order.Subtotal.String(), order.DeliveryFee.String(), order.Total.String(), order.DeliveryRule,
		nullFloatArg(order.DeliveryDistanceKm), nullFloatArg(order.DeliveryLatitude), nullFloatArg(order.DeliveryLongitude),
		order.CreatedBy, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.Position = i

		added, err := marshalList(line.Added)
		if err != nil {
			return err
		}
		secondAdded, err := marshalList(line.SecondAdded)
		if err != nil {
			return err
		}
		removed, err := marshalList(line.Removed)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines
			   (id, order_id, position, menu_item_id, size_id, added, second_menu_item_id, second_size_id,
			    second_added, removed, note, quantity, unit_price, subtotal, base_price, ingredients_cost,
			    second_base_price, second_ingredients_cost, raw_average, rounding_applied)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID, order.ID, line.Position, line.MenuItemID, line.SizeID, added,
			line.SecondMenuItemID, line.SecondSizeID, secondAdded, removed, line.Note, line.Quantity,
			line.UnitPrice.String(), line.Subtotal.String(), line.BasePrice.String(), line.IngredientsCost.String(),
			nullDecimalArg(line.SecondBasePrice), nullDecimalArg(line.SecondIngredientsCost),
			nullDecimalArg(line.RawAverage), line.RoundingApplied,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID, including its lines in submission order.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var (
		order                          = &models.Order{}
		subtotal, deliveryFee, total   string
		distance, latitude, longitude sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, organization_id, order_type, subtotal, delivery_fee, total, delivery_rule,
		        delivery_distance_km, delivery_latitude, delivery_longitude, created_by, created_at
		 FROM orders WHERE id = ?`,
		orderID,
	).Scan(&order.ID, &order.OrganizationID, &order.OrderType, &subtotal, &deliveryFee, &total,
		&order.DeliveryRule, &distance, &latitude, &longitude, &order.CreatedBy, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Subtotal, err = parseDecimal("orders.subtotal", subtotal); err != nil {
		return nil, err
	}
	if order.DeliveryFee, err = parseDecimal("orders.delivery_fee", deliveryFee); err != nil {
		return nil, err
	}
	if order.Total, err = parseDecimal("orders.total", total); err != nil {
		return nil, err
	}
	order.DeliveryDistanceKm = floatPtr(distance)
	order.DeliveryLatitude = floatPtr(latitude)
	order.DeliveryLongitude = floatPtr(longitude)

	if order.Lines, err = s.getOrderLines(ctx, orderID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *SQLiteStore) getOrderLines(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position, menu_item_id, size_id, added, second_menu_item_id, second_size_id,
		        second_added, removed, note, quantity, unit_price, subtotal, base_price, ingredients_cost,
		        second_base_price, second_ingredients_cost, raw_average, rounding_applied
		 FROM order_lines WHERE order_id = ? ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var (
			line                                     models.OrderLine
			added, secondAdded, removed              string
			unitPrice, subtotal, base, ingredients   string
			secondBase, secondIngredients, rawAverage sql.NullString
		)
		if err := rows.Scan(&line.ID, &line.Position, &line.MenuItemID, &line.SizeID, &added,
			&line.SecondMenuItemID, &line.SecondSizeID, &secondAdded, &removed, &line.Note, &line.Quantity,
			&unitPrice, &subtotal, &base, &ingredients,
			&secondBase, &secondIngredients, &rawAverage, &line.RoundingApplied); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		if err := json.Unmarshal([]byte(added), &line.Added); err != nil {
			return nil, fmt.Errorf("invalid order_lines.added: %w", err)
		}
		if err := json.Unmarshal([]byte(secondAdded), &line.SecondAdded); err != nil {
			return nil, fmt.Errorf("invalid order_lines.second_added: %w", err)
		}
		if err := json.Unmarshal([]byte(removed), &line.Removed); err != nil {
			return nil, fmt.Errorf("invalid order_lines.removed: %w", err)
		}

		if line.UnitPrice, err = parseDecimal("order_lines.unit_price", unitPrice); err != nil {
			return nil, err
		}
		if line.Subtotal, err = parseDecimal("order_lines.subtotal", subtotal); err != nil {
			return nil, err
		}
		if line.BasePrice, err = parseDecimal("order_lines.base_price", base); err != nil {
			return nil, err
		}
		if line.IngredientsCost, err = parseDecimal("order_lines.ingredients_cost", ingredients); err != nil {
			return nil, err
		}
		if line.SecondBasePrice, err = parseNullDecimal("order_lines.second_base_price", secondBase); err != nil {
			return nil, err
		}
		if line.SecondIngredientsCost, err = parseNullDecimal("order_lines.second_ingredients_cost", secondIngredients); err != nil {
			return nil, err
		}
		if line.RawAverage, err = parseNullDecimal("order_lines.raw_average", rawAverage); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}
	return lines, nil
}

// marshalList encodes a slice column; nil is stored as an empty list.
func marshalList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list column: %w", err)
	}
	return string(b), nil
}
