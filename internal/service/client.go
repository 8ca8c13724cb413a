package service

import (
	"context"

	"connectrpc.com/connect"
)

// PricingClient calls a PricingService over HTTP.
type PricingClient struct {
	priceItem   *connect.Client[PriceItemRequest, PriceItemResponse]
	priceOrder  *connect.Client[PriceOrderRequest, PriceOrderResponse]
	submitOrder *connect.Client[SubmitOrderRequest, SubmitOrderResponse]
	getOrder    *connect.Client[GetOrderRequest, GetOrderResponse]
}

// NewPricingClient constructs a client for the PricingService at baseURL
// (e.g. http://localhost:8080).
func NewPricingClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PricingClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &PricingClient{
		priceItem:   connect.NewClient[PriceItemRequest, PriceItemResponse](httpClient, baseURL+PricingServicePriceItemProcedure, opts...),
		priceOrder:  connect.NewClient[PriceOrderRequest, PriceOrderResponse](httpClient, baseURL+PricingServicePriceOrderProcedure, opts...),
		submitOrder: connect.NewClient[SubmitOrderRequest, SubmitOrderResponse](httpClient, baseURL+PricingServiceSubmitOrderProcedure, opts...),
		getOrder:    connect.NewClient[GetOrderRequest, GetOrderResponse](httpClient, baseURL+PricingServiceGetOrderProcedure, opts...),
	}
}

func (c *PricingClient) PriceItem(ctx context.Context, req *connect.Request[PriceItemRequest]) (*connect.Response[PriceItemResponse], error) {
	return c.priceItem.CallUnary(ctx, req)
}

func (c *PricingClient) PriceOrder(ctx context.Context, req *connect.Request[PriceOrderRequest]) (*connect.Response[PriceOrderResponse], error) {
	return c.priceOrder.CallUnary(ctx, req)
}

func (c *PricingClient) SubmitOrder(ctx context.Context, req *connect.Request[SubmitOrderRequest]) (*connect.Response[SubmitOrderResponse], error) {
	return c.submitOrder.CallUnary(ctx, req)
}

func (c *PricingClient) GetOrder(ctx context.Context, req *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

// SettingsClient calls a SettingsService over HTTP.
type SettingsClient struct {
	get    *connect.Client[GetDeliverySettingsRequest, GetDeliverySettingsResponse]
	update *connect.Client[UpdateDeliverySettingsRequest, UpdateDeliverySettingsResponse]
}

func NewSettingsClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettingsClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &SettingsClient{
		get:    connect.NewClient[GetDeliverySettingsRequest, GetDeliverySettingsResponse](httpClient, baseURL+SettingsServiceGetDeliverySettingsProcedure, opts...),
		update: connect.NewClient[UpdateDeliverySettingsRequest, UpdateDeliverySettingsResponse](httpClient, baseURL+SettingsServiceUpdateDeliverySettingsProcedure, opts...),
	}
}

func (c *SettingsClient) GetDeliverySettings(ctx context.Context, req *connect.Request[GetDeliverySettingsRequest]) (*connect.Response[GetDeliverySettingsResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *SettingsClient) UpdateDeliverySettings(ctx context.Context, req *connect.Request[UpdateDeliverySettingsRequest]) (*connect.Response[UpdateDeliverySettingsResponse], error) {
	return c.update.CallUnary(ctx, req)
}

// AuthClient calls an AuthService over HTTP.
type AuthClient struct {
	login *connect.Client[LoginRequest, LoginResponse]
}

func NewAuthClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &AuthClient{
		login: connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

func (c *AuthClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
