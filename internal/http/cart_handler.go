package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yralfoods/donut-shop/internal/cache"
	"github.com/yralfoods/donut-shop/internal/cart"
	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/repository"
)

type CartHandler struct {
	cart    *cart.Service
	catalog repository.CatalogRepository
	timeout time.Duration
}

func NewCartHandler(cartSvc *cart.Service, catalog repository.CatalogRepository, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cartSvc,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session := getSession(r.Context())
	items, err := h.cart.Items(ctx, session)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items:    h.mergeDetails(ctx, items),
		Subtotal: subtotal(items),
	})
}

// mergeDetails backfills names and images for entries written before the
// product had them, the way the storefront always displayed the cart.
func (h *CartHandler) mergeDetails(ctx context.Context, items []domain.CartItem) []domain.CartItem {
	var missing []string
	for _, it := range items {
		if it.Name == "" || it.Image == "" {
			missing = append(missing, it.ProductID)
		}
	}
	if len(missing) == 0 {
		return items
	}

	products, err := h.catalog.GetProductsByIDs(ctx, missing)
	if err != nil {
		log.Printf("failed to merge product details: %v", err)
		return items
	}

	for i, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		if it.Name == "" {
			items[i].Name = p.Title
		}
		if it.Image == "" {
			items[i].Image = p.Image
		}
	}
	return items
}

func subtotal(items []domain.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.EffectivePrice() * float64(it.Quantity)
	}
	return sum
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProductBySlug(ctx, req.ProductID)
	if errors.Is(err, repository.ErrProductNotFound) {
		// Fall back to an id lookup; handlers accept either.
		products, idErr := h.catalog.GetProductsByIDs(ctx, []string{req.ProductID})
		if idErr == nil {
			if p, ok := products[req.ProductID]; ok {
				product, err = &p, nil
			}
		}
	}
	if err != nil || product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	session := getSession(r.Context())
	entryID, err := h.cart.AddItem(ctx, session, domain.CartItem{
		ProductID: product.ID,
		Name:      product.Title,
		Price:     product.Price,
		SalePrice: product.SalePrice,
		Quantity:  req.Quantity,
		Image:     product.Image,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"entry_id": entryID})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entryID := chi.URLParam(r, "entry_id")
	if entryID == "" {
		respondError(w, http.StatusBadRequest, "invalid_entry_id", "entry_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	session := getSession(r.Context())
	if err := h.cart.UpdateQuantity(ctx, session, entryID, req.Quantity); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *CartHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	entryID := chi.URLParam(r, "entry_id")
	if entryID == "" {
		respondError(w, http.StatusBadRequest, "invalid_entry_id", "entry_id is required")
		return
	}

	session := getSession(r.Context())
	if err := h.cart.RemoveEntry(ctx, session, entryID); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrEntryNotFound), errors.Is(err, cache.ErrGuestEntryNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart entry not found")
	case errors.Is(err, cart.ErrQuantityTooLow):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "cart operation failed")
	}
}
