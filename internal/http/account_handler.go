package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/repository"
)

type AccountHandler struct {
	accounts repository.AccountRepository
	timeout  time.Duration
}

func NewAccountHandler(accounts repository.AccountRepository, timeout time.Duration) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		timeout:  timeout,
	}
}

type AddAddressRequestDTO struct {
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Details string `json:"details"`
	Pin     string `json:"pin"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	Email   string `json:"email,omitempty"`
}

type SelectStoreRequestDTO struct {
	StoreID string `json:"store_id"`
}

func (h *AccountHandler) requireUser(w http.ResponseWriter, r *http.Request) (domain.Session, bool) {
	session := getSession(r.Context())
	if !session.Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return session, false
	}
	return session, true
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.accounts.GetProfile(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load account")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func parseAddressKind(s string) (domain.AddressKind, bool) {
	switch domain.AddressKind(s) {
	case domain.AddressKindShipping:
		return domain.AddressKindShipping, true
	case domain.AddressKindBilling:
		return domain.AddressKindBilling, true
	}
	return "", false
}

func (h *AccountHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req AddAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	kind, ok := parseAddressKind(req.Kind)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be shipping or billing")
		return
	}

	for name, value := range map[string]string{
		"type": req.Type, "details": req.Details, "pin": req.Pin,
		"phone": req.Phone, "country": req.Country,
	} {
		if strings.TrimSpace(value) == "" {
			respondError(w, http.StatusBadRequest, "missing_field", name+" is required")
			return
		}
	}

	email := req.Email
	if email == "" {
		if profile, err := h.accounts.GetProfile(ctx, session.UserID); err == nil {
			email = profile.Email
		}
	}

	addr := domain.Address{
		AddressID: uuid.NewString(),
		Type:      req.Type,
		Details:   req.Details,
		Pin:       req.Pin,
		Phone:     req.Phone,
		Country:   req.Country,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.accounts.AddAddress(ctx, session.UserID, kind, addr); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save address")
		return
	}

	respondJSON(w, http.StatusCreated, addr)
}

func (h *AccountHandler) RemoveAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind    string         `json:"kind"`
		Address domain.Address `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	kind, ok := parseAddressKind(req.Kind)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be shipping or billing")
		return
	}

	if err := h.accounts.RemoveAddress(ctx, session.UserID, kind, req.Address); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "not_found", "account not found")
		case errors.Is(err, repository.ErrAddressNotFound):
			respondError(w, http.StatusNotFound, "not_found", "address not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove address")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *AccountHandler) SelectStore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	session, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req SelectStoreRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.StoreID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "store_id is required")
		return
	}

	if err := h.accounts.SetSelectedStore(ctx, session.UserID, req.StoreID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save store selection")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
