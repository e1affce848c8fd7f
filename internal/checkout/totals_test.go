package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yralfoods/donut-shop/internal/domain"
)

func TestSubtotal_UsesEffectivePrice(t *testing.T) {
	items := []domain.CartItem{
		{Price: 10.00, Quantity: 2},                   // 20.00
		{Price: 5.00, SalePrice: 4.00, Quantity: 3},   // sale applies: 12.00
		{Price: 3.00, SalePrice: 3.50, Quantity: 1},   // sale above list, ignored: 3.00
		{Price: 2.00, SalePrice: 0, Quantity: 5},      // no sale: 10.00
	}

	assert.InDelta(t, 45.00, Subtotal(items), 0.001)
}

func TestShippingCost_MatchesRuleByLabel(t *testing.T) {
	rules := []domain.DeliveryRule{
		{ShippingType: "Standard", Amount: 5.00},
		{ShippingType: "Express", Amount: 12.50},
	}

	amount, ok := ShippingCost(rules, "Express")
	assert.True(t, ok)
	assert.Equal(t, 12.50, amount)

	amount, ok = ShippingCost(rules, "Overnight")
	assert.False(t, ok)
	assert.Zero(t, amount)

	amount, ok = ShippingCost(nil, "Standard")
	assert.False(t, ok)
	assert.Zero(t, amount)
}

func TestComputeTotals(t *testing.T) {
	items := []domain.CartItem{
		{Price: 50.00, Quantity: 2}, // subtotal 100.00
	}
	rules := []domain.DeliveryRule{{ShippingType: "Standard", Amount: 5.00}}

	totals := ComputeTotals(items, rules, "Standard", 20.00)

	assert.Equal(t, 100.00, totals.Subtotal)
	assert.Equal(t, 5.00, totals.Tax) // flat 5%
	assert.Equal(t, 5.00, totals.ShippingCost)
	assert.Equal(t, 20.00, totals.Discount)
	assert.Equal(t, 90.00, totals.Total)
}

func TestComputeTotals_NoRulesMeansFreeShipping(t *testing.T) {
	items := []domain.CartItem{{Price: 8.40, Quantity: 1}}

	totals := ComputeTotals(items, nil, "", 0)

	assert.Equal(t, 8.40, totals.Subtotal)
	assert.Equal(t, 0.42, totals.Tax)
	assert.Zero(t, totals.ShippingCost)
	assert.Equal(t, 8.82, totals.Total)
}

func TestComputeTotals_ComponentsRoundedIndependently(t *testing.T) {
	// 3 × 3.333 = 9.999 → subtotal 10.00; tax 0.49995 → 0.50.
	items := []domain.CartItem{{Price: 3.333, Quantity: 3}}

	totals := ComputeTotals(items, nil, "", 0)

	assert.Equal(t, 10.00, totals.Subtotal)
	assert.Equal(t, 0.50, totals.Tax)
	assert.Equal(t, 10.50, totals.Total)
}

func TestApplyCoupon_Save20(t *testing.T) {
	applied, err := ApplyCoupon("SAVE20", 100.00, nil)
	assert.NoError(t, err)
	assert.Equal(t, "SAVE20", applied.Code)
	assert.Equal(t, 20.00, applied.Discount)
}

func TestApplyCoupon_CaseInsensitive(t *testing.T) {
	for _, code := range []string{"save20", "Save20", "sAvE20", " save20 "} {
		applied, err := ApplyCoupon(code, 100.00, nil)
		assert.NoError(t, err, code)
		assert.Equal(t, 20.00, applied.Discount, code)
	}
}

func TestApplyCoupon_InvalidPreservesPrior(t *testing.T) {
	prior := &CouponApplication{Code: "SAVE20", Discount: 20.00}

	applied, err := ApplyCoupon("FOO", 100.00, prior)
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.Same(t, prior, applied)

	applied, err = ApplyCoupon("FOO", 100.00, nil)
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.Nil(t, applied)
}

func TestApplyCoupon_NewValidReplacesPrior(t *testing.T) {
	prior := &CouponApplication{Code: "SAVE20", Discount: 10.00}

	applied, err := ApplyCoupon("save20", 250.00, prior)
	assert.NoError(t, err)
	assert.Equal(t, 50.00, applied.Discount)
}
