package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// handlerOptions puts the JSON codec ahead of the caller's options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewPricingServiceHandler builds an HTTP handler for PricingService. It
// returns the path on which to mount the handler and the handler itself.
func NewPricingServiceHandler(svc *PricingService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(PricingServicePriceItemProcedure, connect.NewUnaryHandler(PricingServicePriceItemProcedure, svc.PriceItem, opts...))
	mux.Handle(PricingServicePriceOrderProcedure, connect.NewUnaryHandler(PricingServicePriceOrderProcedure, svc.PriceOrder, opts...))
	mux.Handle(PricingServiceSubmitOrderProcedure, connect.NewUnaryHandler(PricingServiceSubmitOrderProcedure, svc.SubmitOrder, opts...))
	mux.Handle(PricingServiceGetOrderProcedure, connect.NewUnaryHandler(PricingServiceGetOrderProcedure, svc.GetOrder, opts...))
	return "/" + PricingServiceName + "/", mux
}

// NewSettingsServiceHandler builds an HTTP handler for SettingsService.
// requireAuth guards UpdateDeliverySettings only; reads are public. It runs
// ahead of the caller's interceptors so they see the authenticated admin.
func NewSettingsServiceHandler(svc *SettingsService, requireAuth connect.Interceptor, opts ...connect.HandlerOption) (string, http.Handler) {
	update := handlerOptions(append([]connect.HandlerOption{connect.WithInterceptors(requireAuth)}, opts...))
	opts = handlerOptions(opts)

	mux := http.NewServeMux()
	mux.Handle(SettingsServiceGetDeliverySettingsProcedure, connect.NewUnaryHandler(SettingsServiceGetDeliverySettingsProcedure, svc.GetDeliverySettings, opts...))
	mux.Handle(SettingsServiceUpdateDeliverySettingsProcedure, connect.NewUnaryHandler(SettingsServiceUpdateDeliverySettingsProcedure, svc.UpdateDeliverySettings, update...))
	return "/" + SettingsServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	return "/" + AuthServiceName + "/", mux
}
