package checkout

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yralfoods/donut-shop/internal/domain"
)

// OrderWriter persists the order document and its child items.
// Consumers define this interface, not the MongoDB implementation.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) (string, error)
	AddOrderItem(ctx context.Context, item domain.OrderItem) error
}

// CartSource enumerates and trims the cart backing the active session,
// whether it lives in the remote per-user collection or in guest storage.
type CartSource interface {
	Items(ctx context.Context, session domain.Session) ([]domain.CartItem, error)
	RemoveEntry(ctx context.Context, session domain.Session, entryID string) error
}

// Selections are the checkout choices gathered before submission.
type Selections struct {
	Store           *domain.StoreLocation
	ShippingAddress *domain.Address
	BillingAddress  *domain.Address
	DeliveryRules   []domain.DeliveryRule
	DeliveryType    string
	PaymentMethod   domain.PaymentMethod
	Coupon          *CouponApplication
	PaymentToken    string
	Email           string
}

// CleanupWarning reports cart entries that survived the post-order cleanup.
// The order itself stands; a stale cart line is the lesser failure.
type CleanupWarning struct {
	Remaining []string
}

func (w *CleanupWarning) Error() string {
	return fmt.Sprintf("order placed but %d cart entries could not be removed", len(w.Remaining))
}

// PlacementResult describes a successfully placed order.
type PlacementResult struct {
	OrderID     string
	OrderNumber int
	Totals      Totals
	Cleanup     *CleanupWarning
}

type Service struct {
	orders OrderWriter
	cart   CartSource
}

func NewService(orders OrderWriter, cart CartSource) *Service {
	return &Service{orders: orders, cart: cart}
}

// orderNumber is cosmetic: 6 random digits, shown to the shopper. Uniqueness
// is not enforced; the order document id is the real key.
func orderNumber() int {
	return 100000 + rand.Intn(900000)
}

// Validate checks every checkout precondition against the loaded cart.
// Exported so callers can refuse a submission before triggering any side
// effect of their own, card charges included. PlaceOrder runs the same check
// before its first write.
func Validate(sel *Selections, items []domain.CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	if sel.Store == nil {
		return ErrNoStoreSelected
	}
	if sel.ShippingAddress == nil || sel.BillingAddress == nil {
		return ErrMissingAddress
	}
	if len(sel.DeliveryRules) > 0 {
		if _, ok := ShippingCost(sel.DeliveryRules, sel.DeliveryType); !ok {
			return ErrNoDeliveryType
		}
	}
	switch sel.PaymentMethod {
	case domain.PaymentMethodCOD, domain.PaymentMethodCard:
	default:
		return ErrNoPaymentMethod
	}
	return nil
}

// PlaceOrder turns the session's cart plus selections into a persisted order.
//
// The persistence protocol is three sequential phases with no multi-document
// transaction: the order document first, then one child document per cart
// line (issued together, jointly awaited), then the cart deletes. A failure
// in phase one or two surfaces ErrOrderPersist and leaves the cart alone so
// the shopper can resubmit. Phase-three failures only produce a
// CleanupWarning on the result: a visible order is never lost to cleanup.
func (s *Service) PlaceOrder(ctx context.Context, session domain.Session, sel *Selections) (*PlacementResult, error) {
	items, err := s.cart.Items(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := Validate(sel, items); err != nil {
		return nil, err
	}

	if sel.PaymentMethod == domain.PaymentMethodCard && sel.PaymentToken == "" {
		return nil, ErrPaymentDeclined
	}

	var discount float64
	var couponCode string
	if sel.Coupon != nil {
		discount = sel.Coupon.Discount
		couponCode = sel.Coupon.Code
	}
	totals := ComputeTotals(items, sel.DeliveryRules, sel.DeliveryType, discount)

	order := &domain.Order{
		UserID:          session.Owner(),
		OrderNumber:     orderNumber(),
		StoreID:         sel.Store.ID,
		StoreName:       sel.Store.StoreName,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingCost:    totals.ShippingCost,
		Discount:        totals.Discount,
		Total:           totals.Total,
		ItemCount:       len(items),
		CouponCode:      couponCode,
		PaymentMethod:   sel.PaymentMethod,
		PaymentToken:    sel.PaymentToken,
		ShippingAddress: *sel.ShippingAddress,
		BillingAddress:  *sel.BillingAddress,
		DeliveryType:    sel.DeliveryType,
		Email:           sel.Email,
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderPersist, err)
	}

	// Fan out the item writes; they are independent records, no ordering
	// between them is required.
	g, gctx := errgroup.WithContext(ctx)
	for _, it := range items {
		it := it
		g.Go(func() error {
			return s.orders.AddOrderItem(gctx, domain.OrderItem{
				OrderID:   orderID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				SalePrice: it.SalePrice,
				Quantity:  it.Quantity,
				Image:     it.Image,
				StoreID:   sel.Store.ID,
			})
		})
	}
	if err := g.Wait(); err != nil {
		// Partial item state may remain under the order; no rollback is
		// attempted. The cart stays intact so order completion is not
		// falsely implied.
		return nil, fmt.Errorf("%w: %v", ErrOrderPersist, err)
	}

	result := &PlacementResult{
		OrderID:     orderID,
		OrderNumber: order.OrderNumber,
		Totals:      totals,
	}

	// Cart cleanup. Every delete is attempted regardless of sibling
	// failures; leftovers are reported, never fatal.
	var (
		mu        sync.Mutex
		remaining []string
		wg        sync.WaitGroup
	)
	for _, it := range items {
		it := it
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.cart.RemoveEntry(ctx, session, it.EntryID); err != nil {
				log.Printf("cart cleanup failed for entry %s: %v", it.EntryID, err)
				mu.Lock()
				remaining = append(remaining, it.EntryID)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(remaining) > 0 {
		result.Cleanup = &CleanupWarning{Remaining: remaining}
	}
	return result, nil
}
