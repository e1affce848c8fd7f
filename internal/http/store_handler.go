package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yralfoods/donut-shop/internal/repository"
	"github.com/yralfoods/donut-shop/internal/store"
)

type StoreHandler struct {
	stores  repository.StoreRepository
	now     func() time.Time
	timeout time.Duration
}

func NewStoreHandler(stores repository.StoreRepository, timeout time.Duration) *StoreHandler {
	return &StoreHandler{
		stores:  stores,
		now:     time.Now,
		timeout: timeout,
	}
}

func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stores, err := h.stores.ListStores(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load stores")
		return
	}

	respondJSON(w, http.StatusOK, stores)
}

func (h *StoreHandler) StoreStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	storeID := chi.URLParam(r, "store_id")
	loc, err := h.stores.GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "store not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load store")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"store_id": loc.ID,
		"open":     store.IsOpen(loc.WorkHours, h.now()),
	})
}
