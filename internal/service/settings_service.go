package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pricewise/internal/auth"
	"github.com/mmynk/pricewise/internal/middleware"
	"github.com/mmynk/pricewise/internal/storage"
)

// SettingsService exposes the delivery fee configuration.
type SettingsService struct {
	store                 storage.Store
	defaultOrganizationID string
	logger                *slog.Logger
}

func NewSettingsService(store storage.Store, defaultOrganizationID string, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:                 store,
		defaultOrganizationID: defaultOrganizationID,
		logger:                logger,
	}
}

// GetDeliverySettings returns an organization's delivery settings. Customers
// use it to show the fee rules before checkout.
func (s *SettingsService) GetDeliverySettings(ctx context.Context, req *connect.Request[GetDeliverySettingsRequest]) (*connect.Response[GetDeliverySettingsResponse], error) {
	orgID := req.Msg.OrganizationID
	if orgID == "" {
		orgID = s.defaultOrganizationID
	}

	settings, err := s.store.GetDeliverySettings(ctx, orgID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		s.logger.Error("GetDeliverySettings failed", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&GetDeliverySettingsResponse{Settings: settingsView(settings)}), nil
}

// UpdateDeliverySettings replaces the settings of the caller's organization.
// Requires an admin token.
func (s *SettingsService) UpdateDeliverySettings(ctx context.Context, req *connect.Request[UpdateDeliverySettingsRequest]) (*connect.Response[UpdateDeliverySettingsResponse], error) {
	orgID := middleware.GetOrganizationID(ctx)
	if orgID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	s.logger.Info("UpdateDeliverySettings request received",
		"organization_id", orgID,
		"user_id", middleware.GetUserID(ctx),
		"mode", req.Msg.Settings.Mode,
		"tiers_count", len(req.Msg.Settings.Tiers),
	)

	settings := settingsModel(orgID, req.Msg.Settings)
	if err := settings.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.SaveDeliverySettings(ctx, settings); err != nil {
		s.logger.Error("UpdateDeliverySettings failed", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Delivery settings updated", "organization_id", orgID, "mode", settings.Mode)

	return connect.NewResponse(&UpdateDeliverySettingsResponse{Settings: settingsView(settings)}), nil
}

