package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/pricewise/internal/calculator"
)

// Service and procedure names. Requests and responses are JSON objects.
const (
	PricingServiceName  = "pricewise.v1.PricingService"
	SettingsServiceName = "pricewise.v1.SettingsService"
	AuthServiceName     = "pricewise.v1.AuthService"

	PricingServicePriceItemProcedure   = "/" + PricingServiceName + "/PriceItem"
	PricingServicePriceOrderProcedure  = "/" + PricingServiceName + "/PriceOrder"
	PricingServiceSubmitOrderProcedure = "/" + PricingServiceName + "/SubmitOrder"
	PricingServiceGetOrderProcedure    = "/" + PricingServiceName + "/GetOrder"

	SettingsServiceGetDeliverySettingsProcedure    = "/" + SettingsServiceName + "/GetDeliverySettings"
	SettingsServiceUpdateDeliverySettingsProcedure = "/" + SettingsServiceName + "/UpdateDeliverySettings"

	AuthServiceLoginProcedure = "/" + AuthServiceName + "/Login"
)

// Money is encoded as a decimal string ("12.50") so no precision is lost.

type PriceItemRequest struct {
	// OrganizationID selects the catalog; empty means the default organization.
	OrganizationID string                    `json:"organization_id,omitempty"`
	Item           calculator.OrderItemInput `json:"item"`
}

type PriceItemResponse struct {
	Item LinePrice `json:"item"`
}

type PriceOrderRequest struct {
	OrganizationID string                      `json:"organization_id,omitempty"`
	OrderType      calculator.OrderType        `json:"order_type"`
	Items          []calculator.OrderItemInput `json:"items"`

	// Destination is used for radial delivery fees.
	Destination *calculator.Coordinates `json:"destination,omitempty"`
}

type PriceOrderResponse struct {
	Items       []LinePrice     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Delivery    *DeliveryDetail `json:"delivery,omitempty"`

	// Unresolved lists every catalog id that priced as zero. A non-empty
	// list means the order would be rejected on submission.
	Unresolved []calculator.UnresolvedRef `json:"unresolved,omitempty"`
}

// SubmitOrderRequest carries the cart only. Prices are always recomputed on
// the server.
type SubmitOrderRequest struct {
	OrganizationID string                      `json:"organization_id,omitempty"`
	OrderType      calculator.OrderType        `json:"order_type"`
	Items          []calculator.OrderItemInput `json:"items"`
	Destination    *calculator.Coordinates     `json:"destination,omitempty"`
}

type SubmitOrderResponse struct {
	Order Order `json:"order"`
}

type GetOrderRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
	OrderID        string `json:"order_id"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

// LinePrice is the priced form of one cart line.
type LinePrice struct {
	UnitPrice       decimal.Decimal            `json:"unit_price"`
	Subtotal        decimal.Decimal            `json:"subtotal"`
	Quantity        int                        `json:"quantity"`
	BasePrice       decimal.Decimal            `json:"base_price"`
	IngredientsCost decimal.Decimal            `json:"ingredients_cost"`
	Split           *SplitDetail               `json:"split,omitempty"`
	Unresolved      []calculator.UnresolvedRef `json:"unresolved,omitempty"`
}

// SplitDetail shows how a half-and-half price was averaged and rounded.
type SplitDetail struct {
	SecondBasePrice       decimal.Decimal `json:"second_base_price"`
	SecondIngredientsCost decimal.Decimal `json:"second_ingredients_cost"`
	RawAverage            decimal.Decimal `json:"raw_average"`
	RoundingApplied       bool            `json:"rounding_applied"`
}

type DeliveryDetail struct {
	Rule       calculator.DeliveryRule `json:"rule"`
	DistanceKm *float64                `json:"distance_km,omitempty"`
}

// Order is a stored order as returned to clients.
type Order struct {
	ID             string               `json:"id"`
	OrganizationID string               `json:"organization_id"`
	OrderType      calculator.OrderType `json:"order_type"`
	Lines          []OrderLine          `json:"lines"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DeliveryFee    decimal.Decimal      `json:"delivery_fee"`
	Total          decimal.Decimal      `json:"total"`

	Delivery    *DeliveryDetail         `json:"delivery,omitempty"`
	Destination *calculator.Coordinates `json:"destination,omitempty"`

	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type OrderLine struct {
	Item  calculator.OrderItemInput `json:"item"`
	Price LinePrice                 `json:"price"`
}

type GetDeliverySettingsRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
}

type GetDeliverySettingsResponse struct {
	Settings DeliverySettings `json:"settings"`
}

// UpdateDeliverySettingsRequest replaces the settings of the organization the
// caller's token was issued for.
type UpdateDeliverySettingsRequest struct {
	Settings DeliverySettings `json:"settings"`
}

type UpdateDeliverySettingsResponse struct {
	Settings DeliverySettings `json:"settings"`
}

type DeliverySettings struct {
	Mode                  string                  `json:"mode"`
	FlatFee               decimal.Decimal         `json:"flat_fee"`
	FreeDeliveryThreshold decimal.NullDecimal     `json:"free_delivery_threshold"`
	Tiers                 []DeliveryTier          `json:"tiers,omitempty"`
	BeyondTiersFee        decimal.Decimal         `json:"beyond_tiers_fee"`
	Shop                  *calculator.Coordinates `json:"shop,omitempty"`
	UpdatedAt             int64                   `json:"updated_at,omitempty"`
}

type DeliveryTier struct {
	KmCeiling float64         `json:"km_ceiling"`
	Price     decimal.Decimal `json:"price"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token          string `json:"token"`
	ExpiresAt      int64  `json:"expires_at"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
}
