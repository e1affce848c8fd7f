package checkout

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNoStoreSelected = errors.New("store location not selected")
	ErrMissingAddress  = errors.New("shipping and billing addresses must be selected")
	ErrNoDeliveryType  = errors.New("delivery type not selected")
	ErrNoPaymentMethod = errors.New("payment method not selected")
	ErrOrderPersist    = errors.New("order could not be saved")
	ErrPaymentDeclined = errors.New("payment was declined")
	ErrCouponInvalid   = errors.New("invalid coupon")
)
