package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/pricewise/internal/calculator"
	"github.com/mmynk/pricewise/internal/metrics"
	"github.com/mmynk/pricewise/internal/middleware"
	"github.com/mmynk/pricewise/internal/storage"
)

var (
	ErrNoItems          = errors.New("order has no items")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrUnknownOrderType = errors.New("unknown order type")
)

// PricingOptions configures a PricingService.
type PricingOptions struct {
	// DefaultOrganizationID is used when a request names no organization.
	DefaultOrganizationID string

	// StrictPreview makes PriceItem and PriceOrder fail on unresolved ids
	// instead of reporting them.
	StrictPreview bool
}

// PricingService prices carts and stores submitted orders. Every request
// builds a fresh catalog snapshot, so admin changes apply to the next call.
type PricingService struct {
	store   storage.Store
	metrics *metrics.Metrics
	opts    PricingOptions
	logger  *slog.Logger
}

// NewPricingService creates a new PricingService. m may be nil.
func NewPricingService(store storage.Store, m *metrics.Metrics, opts PricingOptions, logger *slog.Logger) *PricingService {
	return &PricingService{
		store:   store,
		metrics: m,
		opts:    opts,
		logger:  logger,
	}
}

// PriceItem prices a single cart line, e.g. while a customer configures it.
func (s *PricingService) PriceItem(ctx context.Context, req *connect.Request[PriceItemRequest]) (*connect.Response[PriceItemResponse], error) {
	orgID := s.organization(req.Msg.OrganizationID)

	engine, err := s.engine(ctx, orgID)
	if err != nil {
		return nil, err
	}

	price := engine.PriceItem(req.Msg.Item)
	if len(price.Unresolved) > 0 {
		s.logger.Warn("Item priced with unresolved references",
			"organization_id", orgID,
			"unresolved", price.Unresolved,
		)
		if s.opts.StrictPreview {
			return nil, connect.NewError(connect.CodeFailedPrecondition, calculator.ErrUnresolvedReference)
		}
	}

	return connect.NewResponse(&PriceItemResponse{Item: linePrice(price)}), nil
}

// PriceOrder previews the total of a cart without storing it. Unresolved ids
// are reported in the response unless strict previews are configured.
func (s *PricingService) PriceOrder(ctx context.Context, req *connect.Request[PriceOrderRequest]) (*connect.Response[PriceOrderResponse], error) {
	orgID := s.organization(req.Msg.OrganizationID)
	s.logger.Info("PriceOrder request received",
		"organization_id", orgID,
		"order_type", req.Msg.OrderType,
		"items_count", len(req.Msg.Items),
	)

	if err := validateOrderType(req.Msg.OrderType); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	var opts []calculator.Option
	if s.opts.StrictPreview {
		opts = append(opts, calculator.WithStrictReferences())
	}
	engine, err := s.engine(ctx, orgID, opts...)
	if err != nil {
		return nil, err
	}

	total, err := engine.PriceOrder(req.Msg.Items, req.Msg.OrderType, req.Msg.Destination)
	if err != nil {
		s.metrics.ObserveOrder(req.Msg.OrderType, total, metrics.OutcomeRejected)
		s.logger.Warn("PriceOrder rejected", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	outcome := metrics.OutcomeOK
	if total.Degraded() {
		outcome = metrics.OutcomeDegraded
		s.logger.Warn("Order priced with unresolved references",
			"organization_id", orgID,
			"unresolved", total.Unresolved(),
		)
	}
	s.metrics.ObserveOrder(req.Msg.OrderType, total, outcome)

	return connect.NewResponse(priceOrderResponse(total)), nil
}

// SubmitOrder recomputes the cart against the current catalog and stores the
// result. Orders that reference missing ids are rejected.
func (s *PricingService) SubmitOrder(ctx context.Context, req *connect.Request[SubmitOrderRequest]) (*connect.Response[SubmitOrderResponse], error) {
	orgID := s.organization(req.Msg.OrganizationID)
	s.logger.Info("SubmitOrder request received",
		"organization_id", orgID,
		"order_type", req.Msg.OrderType,
		"items_count", len(req.Msg.Items),
	)

	if err := validateOrderType(req.Msg.OrderType); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if len(req.Msg.Items) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrNoItems)
	}
	for i, item := range req.Msg.Items {
		if item.Quantity < 1 {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity))
		}
	}

	engine, err := s.engine(ctx, orgID, calculator.WithStrictReferences())
	if err != nil {
		return nil, err
	}

	total, err := engine.PriceOrder(req.Msg.Items, req.Msg.OrderType, req.Msg.Destination)
	if err != nil {
		s.metrics.ObserveOrder(req.Msg.OrderType, total, metrics.OutcomeRejected)
		s.logger.Warn("SubmitOrder rejected", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	}

	order := newOrder(orgID, req.Msg, total)
	order.CreatedBy = middleware.GetUserID(ctx)

	if err := s.store.CreateOrder(ctx, order); err != nil {
		s.logger.Error("SubmitOrder failed", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.ObserveOrder(req.Msg.OrderType, total, metrics.OutcomeOK)

	s.logger.Info("Order submitted",
		"order_id", order.ID,
		"organization_id", orgID,
		"total", order.Total.String(),
	)

	return connect.NewResponse(&SubmitOrderResponse{Order: orderView(order)}), nil
}

// GetOrder returns a stored order of the organization.
func (s *PricingService) GetOrder(ctx context.Context, req *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error) {
	orgID := s.organization(req.Msg.OrganizationID)

	order, err := s.store.GetOrder(ctx, req.Msg.OrderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		s.logger.Error("GetOrder failed", "order_id", req.Msg.OrderID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	// Orders of other organizations are reported as missing
	if order.OrganizationID != orgID {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("order %s: %w", req.Msg.OrderID, storage.ErrNotFound))
	}

	return connect.NewResponse(&GetOrderResponse{Order: orderView(order)}), nil
}

func (s *PricingService) organization(requested string) string {
	if requested != "" {
		return requested
	}
	return s.opts.DefaultOrganizationID
}

// engine loads the organization's catalog and delivery settings into a new
// pricing engine. Missing delivery settings mean no delivery fee.
func (s *PricingService) engine(ctx context.Context, orgID string, opts ...calculator.Option) (*calculator.Engine, error) {
	if _, err := s.store.GetOrganization(ctx, orgID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	catalog, err := s.store.LoadCatalog(ctx, orgID)
	if err != nil {
		s.logger.Error("Failed to load catalog", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	var delivery *calculator.DeliveryConfig
	settings, err := s.store.GetDeliverySettings(ctx, orgID)
	switch {
	case err == nil:
		delivery = deliveryConfig(settings)
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Debug("No delivery settings", "organization_id", orgID)
	default:
		s.logger.Error("Failed to load delivery settings", "organization_id", orgID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return calculator.NewEngine(catalogSnapshot(catalog), delivery, opts...), nil
}

func validateOrderType(t calculator.OrderType) error {
	switch t {
	case calculator.OrderTypeDelivery, calculator.OrderTypeTakeaway, calculator.OrderTypeDineIn:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownOrderType, t)
}
