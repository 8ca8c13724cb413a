package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnresolvedReference is returned by PriceOrder in strict mode when any line
// referenced an id missing from the catalog snapshot.
var ErrUnresolvedReference = errors.New("unresolved catalog reference")

// OrderType is how the order reaches the customer.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDineIn   OrderType = "dine_in"
)

// OrderTotal is the fully priced order.
type OrderTotal struct {
	Items       []ItemPrice
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal

	// Delivery is set when a delivery fee was resolved.
	Delivery *DeliveryQuote
}

// Unresolved collects the unresolved references of every line, in line order.
func (t OrderTotal) Unresolved() []UnresolvedRef {
	var refs []UnresolvedRef
	for _, item := range t.Items {
		refs = append(refs, item.Unresolved...)
	}
	return refs
}

// Degraded reports whether any part of the order was priced from a missing reference.
func (t OrderTotal) Degraded() bool {
	for _, item := range t.Items {
		if len(item.Unresolved) > 0 {
			return true
		}
	}
	return false
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrictReferences makes PriceOrder return ErrUnresolvedReference when any
// line used an id the catalog does not contain. The computed total is still
// returned alongside the error.
func WithStrictReferences() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// Engine prices items and orders against one catalog snapshot. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	catalog  *Catalog
	delivery *DeliveryConfig
	strict   bool
}

// NewEngine creates an engine for the given snapshot. delivery may be nil, in
// which case delivery orders are charged no fee.
func NewEngine(catalog *Catalog, delivery *DeliveryConfig, opts ...Option) *Engine {
	if catalog == nil {
		catalog = NewCatalog(nil, nil, nil, nil)
	}
	e := &Engine{catalog: catalog, delivery: delivery}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PriceOrder prices every line in input order, sums the subtotals and adds the
// delivery fee for delivery orders.
//
// Lines with bad references degrade to zero; the caller must reject degraded
// orders before charging them. The error is always nil unless the engine was
// built WithStrictReferences.
func (e *Engine) PriceOrder(items []OrderItemInput, orderType OrderType, dest *Coordinates) (OrderTotal, error) {
	total := OrderTotal{
		Items:       make([]ItemPrice, 0, len(items)),
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
	}

	for _, in := range items {
		price := e.PriceItem(in)
		total.Items = append(total.Items, price)
		total.Subtotal = total.Subtotal.Add(price.Subtotal)
	}

	if orderType == OrderTypeDelivery && e.delivery != nil {
		quote := ResolveDeliveryFee(*e.delivery, total.Subtotal, dest)
		total.Delivery = &quote
		total.DeliveryFee = quote.Fee
	}

	total.Total = total.Subtotal.Add(total.DeliveryFee)

	if e.strict && total.Degraded() {
		return total, fmt.Errorf("%w: %s", ErrUnresolvedReference, formatRefs(total.Unresolved()))
	}
	return total, nil
}

func formatRefs(refs []UnresolvedRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = string(r.Kind) + " " + r.ID
	}
	return strings.Join(parts, ", ")
}
