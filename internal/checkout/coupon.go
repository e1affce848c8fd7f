package checkout

import "strings"

const (
	couponSave20     = "SAVE20"
	save20Percentage = 0.20
)

// CouponApplication is a derived value, never persisted on its own.
type CouponApplication struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// ApplyCoupon evaluates code against the pre-tax, pre-shipping subtotal.
// A matching code (case-insensitive) replaces any prior application. An
// invalid code returns ErrCouponInvalid and the prior application untouched;
// only an explicit valid apply changes the active discount.
func ApplyCoupon(code string, subtotal float64, prior *CouponApplication) (*CouponApplication, error) {
	if strings.EqualFold(strings.TrimSpace(code), couponSave20) {
		return &CouponApplication{
			Code:     couponSave20,
			Discount: subtotal * save20Percentage,
		}, nil
	}
	return prior, ErrCouponInvalid
}
