package checkout

import (
	"math"

	"github.com/yralfoods/donut-shop/internal/domain"
)

const taxRate = 0.05

// Totals holds the five monetary figures of an order. Each is rounded to two
// decimals independently before Total is summed, so Total may differ from
// re-summing unrounded components by a cent or two. That matches what the
// storefront has always shown and stored; do not "fix" it here.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	ShippingCost float64 `json:"shipping_cost"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums effective unit price times quantity over all cart lines.
func Subtotal(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.EffectivePrice() * float64(it.Quantity)
	}
	return sum
}

// ShippingCost returns the amount of the rule whose label matches the chosen
// delivery type. The second return reports whether a rule matched.
func ShippingCost(rules []domain.DeliveryRule, deliveryType string) (float64, bool) {
	for _, r := range rules {
		if r.ShippingType == deliveryType {
			return r.Amount, true
		}
	}
	return 0, false
}

// ComputeTotals derives the order figures from the cart and selections.
// discount is the already-applied coupon discount (0 when none).
func ComputeTotals(items []domain.CartItem, rules []domain.DeliveryRule, deliveryType string, discount float64) Totals {
	sub := Subtotal(items)
	shipping, _ := ShippingCost(rules, deliveryType)
	tax := sub * taxRate

	t := Totals{
		Subtotal:     round2(sub),
		Tax:          round2(tax),
		ShippingCost: round2(shipping),
		Discount:     round2(discount),
	}
	t.Total = round2(t.Subtotal + t.Tax + t.ShippingCost - t.Discount)
	return t
}
