// Package metrics exposes Prometheus collectors for pricing and RPC traffic.
package metrics

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/pricewise/internal/calculator"
)

const namespace = "pricewise"

// Outcomes recorded by ObserveOrder.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeRejected = "rejected"
)

// Metrics groups the service collectors.
type Metrics struct {
	ordersPriced   *prometheus.CounterVec
	unresolvedRefs *prometheus.CounterVec
	deliveryRules  *prometheus.CounterVec
	orderTotal     prometheus.Histogram
	rpcDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersPriced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_priced_total",
			Help:      "Orders priced, by order type and outcome.",
		}, []string{"order_type", "outcome"}),
		unresolvedRefs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_references_total",
			Help:      "Catalog ids that could not be resolved while pricing.",
		}, []string{"kind"}),
		deliveryRules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_fee_rule_total",
			Help:      "Delivery fees resolved, by the rule that produced them.",
		}, []string{"rule"}),
		orderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total",
			Help:      "Order totals in major currency units.",
			Buckets:   []float64{5, 10, 20, 30, 50, 75, 100, 150, 250},
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.ordersPriced, m.unresolvedRefs, m.deliveryRules, m.orderTotal, m.rpcDuration)
	return m
}

// ObserveOrder records one priced order. A nil receiver is a no-op so the
// service can run without metrics.
func (m *Metrics) ObserveOrder(orderType calculator.OrderType, total calculator.OrderTotal, outcome string) {
	if m == nil {
		return
	}
	m.ordersPriced.WithLabelValues(string(orderType), outcome).Inc()
	for _, ref := range total.Unresolved() {
		m.unresolvedRefs.WithLabelValues(string(ref.Kind)).Inc()
	}
	if total.Delivery != nil {
		m.deliveryRules.WithLabelValues(string(total.Delivery.Rule)).Inc()
	}
	if outcome != OutcomeRejected {
		m.orderTotal.Observe(total.Total.InexactFloat64())
	}
}

// Interceptor returns a Connect interceptor that records RPC latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeUnknown.String()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			m.rpcDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
