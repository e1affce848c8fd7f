package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/yralfoods/donut-shop/internal/cart"
	"github.com/yralfoods/donut-shop/internal/checkout"
	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/payment"
	"github.com/yralfoods/donut-shop/internal/repository"
	"github.com/yralfoods/donut-shop/internal/store"
)

const checkoutCurrency = "CAD"

type CheckoutHandler struct {
	engine    *checkout.Service
	cart      *cart.Service
	accounts  repository.AccountRepository
	stores    repository.StoreRepository
	shipping  repository.ShippingRepository
	processor payment.Processor
	now       func() time.Time
	timeout   time.Duration
}

func NewCheckoutHandler(
	engine *checkout.Service,
	cartSvc *cart.Service,
	accounts repository.AccountRepository,
	stores repository.StoreRepository,
	shipping repository.ShippingRepository,
	processor payment.Processor,
	timeout time.Duration,
) *CheckoutHandler {
	return &CheckoutHandler{
		engine:    engine,
		cart:      cartSvc,
		accounts:  accounts,
		stores:    stores,
		shipping:  shipping,
		processor: processor,
		now:       time.Now,
		timeout:   timeout,
	}
}

type PlaceOrderRequestDTO struct {
	StoreID           string `json:"store_id"`
	ShippingAddressID string `json:"shipping_address_id"`
	BillingAddressID  string `json:"billing_address_id"`
	DeliveryType      string `json:"delivery_type"`
	PaymentMethod     string `json:"payment_method"`
	CouponCode        string `json:"coupon_code,omitempty"`
	CardToken         string `json:"card_token,omitempty"`
}

type PlaceOrderResponseDTO struct {
	OrderID        string          `json:"order_id"`
	OrderNumber    int             `json:"order_number"`
	Totals         checkout.Totals `json:"totals"`
	CleanupWarning string          `json:"cleanup_warning,omitempty"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code"`
}

// PlaceOrder gathers the shopper's selections, resolves them against the
// account and store data, and runs the order-assembly engine. Checkout is for
// signed-in shoppers only; guests are asked to log in first.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session := getSession(r.Context())
	if !session.Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthorized", "please log in to continue checkout")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	profile, err := h.accounts.GetProfile(ctx, session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load account")
		return
	}

	sel := &checkout.Selections{
		ShippingAddress: findAddress(profile.ShippingAddresses, req.ShippingAddressID),
		BillingAddress:  findAddress(profile.BillingAddresses, req.BillingAddressID),
		DeliveryType:    req.DeliveryType,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Email:           profile.Email,
	}

	if req.StoreID != "" {
		loc, err := h.stores.GetStore(ctx, req.StoreID)
		if err != nil && !errors.Is(err, repository.ErrStoreNotFound) {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load store")
			return
		}
		if loc != nil {
			if !store.IsOpen(loc.WorkHours, h.now()) {
				respondError(w, http.StatusConflict, "store_closed", store.ErrStoreClosed.Error())
				return
			}
			sel.Store = loc
		}
	}

	if sel.ShippingAddress != nil {
		rules, err := h.shipping.RulesForCountry(ctx, sel.ShippingAddress.Country)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load delivery rules")
			return
		}
		sel.DeliveryRules = rules
	}

	items, err := h.cart.Items(ctx, session)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	if req.CouponCode != "" {
		// An unrecognized code never blocks checkout; it just applies no
		// discount.
		if applied, err := checkout.ApplyCoupon(req.CouponCode, checkout.Subtotal(items), nil); err == nil {
			sel.Coupon = applied
		}
	}

	// Reject doomed submissions before any money moves.
	if err := checkout.Validate(sel, items); err != nil {
		handleCheckoutError(w, err)
		return
	}

	if sel.PaymentMethod == domain.PaymentMethodCard {
		if req.CardToken == "" {
			respondError(w, http.StatusPaymentRequired, "payment_declined", "card tokenization did not complete")
			return
		}
		preview := checkout.ComputeTotals(items, sel.DeliveryRules, sel.DeliveryType, discountOf(sel.Coupon))
		confirmation, err := h.processor.Charge(ctx, req.CardToken, preview.Total, checkoutCurrency)
		if err != nil {
			if errors.Is(err, payment.ErrDeclined) {
				respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
				return
			}
			respondError(w, http.StatusBadGateway, "payment_unavailable", "payment processor unavailable")
			return
		}
		sel.PaymentToken = confirmation
	}

	result, err := h.engine.PlaceOrder(ctx, session, sel)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	resp := PlaceOrderResponseDTO{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Totals:      result.Totals,
	}
	if result.Cleanup != nil {
		log.Printf("order %s placed with cleanup warning: %v", result.OrderID, result.Cleanup)
		resp.CleanupWarning = result.Cleanup.Error()
	}
	respondJSON(w, http.StatusCreated, resp)
}

// ApplyCoupon previews a coupon against the current cart without changing
// any state.
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	items, err := h.cart.Items(ctx, getSession(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	applied, err := checkout.ApplyCoupon(req.Code, checkout.Subtotal(items), nil)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid_coupon", "Invalid Coupon")
		return
	}

	respondJSON(w, http.StatusOK, applied)
}

// DeliveryRules lists the delivery options for a destination country.
func (h *CheckoutHandler) DeliveryRules(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	country := r.URL.Query().Get("country")
	if country == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "country is required")
		return
	}

	rules, err := h.shipping.RulesForCountry(ctx, country)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load delivery rules")
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func findAddress(addrs []domain.Address, id string) *domain.Address {
	for i := range addrs {
		if addrs[i].AddressID == id {
			return &addrs[i]
		}
	}
	return nil
}

func discountOf(c *checkout.CouponApplication) float64 {
	if c == nil {
		return 0
	}
	return c.Discount
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrNoStoreSelected):
		respondError(w, http.StatusUnprocessableEntity, "no_store_selected", err.Error())
	case errors.Is(err, checkout.ErrMissingAddress):
		respondError(w, http.StatusUnprocessableEntity, "missing_address", err.Error())
	case errors.Is(err, checkout.ErrNoDeliveryType):
		respondError(w, http.StatusUnprocessableEntity, "no_delivery_type", err.Error())
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		respondError(w, http.StatusUnprocessableEntity, "no_payment_method", err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, checkout.ErrOrderPersist):
		respondError(w, http.StatusBadGateway, "order_persist_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	}
}
