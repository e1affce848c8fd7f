package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/repository"
)

type OrdersHandler struct {
	orders  repository.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(orders repository.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrderDetailDTO struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session := getSession(r.Context())
	orders, err := h.orders.ListForUser(ctx, session.Owner())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	// Orders are only visible to their owner.
	session := getSession(r.Context())
	if order.UserID != session.Owner() {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	items, err := h.orders.ItemsForOrder(ctx, order.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order items")
		return
	}

	respondJSON(w, http.StatusOK, OrderDetailDTO{Order: *order, Items: items})
}
