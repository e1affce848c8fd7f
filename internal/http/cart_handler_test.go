package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yralfoods/donut-shop/internal/cart"
	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/repository"
)

type stubCatalog struct {
	products map[string]domain.Product // keyed by both id and slug
	reviews  []domain.Review
}

func (s stubCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	seen := map[string]bool{}
	for _, p := range s.products {
		if !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubCatalog) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if p, ok := s.products[slug]; ok {
		return &p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (s stubCatalog) GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s stubCatalog) AddReview(ctx context.Context, review domain.Review) error { return nil }

func (s stubCatalog) ReviewsForProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews, nil
}

func testCatalog() stubCatalog {
	boston := domain.Product{ID: "prod-1", Title: "Boston Cream", Slug: "boston-cream", Price: 3.50, Image: "boston.jpg"}
	maple := domain.Product{ID: "prod-2", Title: "Maple Glazed", Slug: "maple-glazed", Price: 3.00, SalePrice: 2.50, Image: "maple.jpg"}
	return stubCatalog{products: map[string]domain.Product{
		"prod-1":       boston,
		"boston-cream": boston,
		"prod-2":       maple,
		"maple-glazed": maple,
	}}
}

func newCartFixture(items []domain.CartItem) (*CartHandler, *stubCartRepo, *stubGuestStore) {
	cartRepo := &stubCartRepo{items: map[string][]domain.CartItem{"user123": items}}
	guest := &stubGuestStore{items: map[string][]domain.CartItem{}}
	cartSvc := cart.NewService(cartRepo, guest, noopCache{})
	return NewCartHandler(cartSvc, testCatalog(), 5*time.Second), cartRepo, guest
}

func withSession(request *http.Request, session domain.Session) *http.Request {
	ctx := context.WithValue(request.Context(), "session", session)
	return request.WithContext(ctx)
}

func TestGetCart_MergesProductDetails(t *testing.T) {
	handler, _, _ := newCartFixture([]domain.CartItem{
		{EntryID: "entry-1", UserID: "user123", ProductID: "prod-1", Price: 3.50, Quantity: 2},
	})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/", nil), domain.Session{UserID: "user123"})

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(response.Items))
	}
	if response.Items[0].Name != "Boston Cream" {
		t.Errorf("Expected merged name 'Boston Cream', got %q", response.Items[0].Name)
	}
	if response.Items[0].Image != "boston.jpg" {
		t.Errorf("Expected merged image, got %q", response.Items[0].Image)
	}
	if response.Subtotal != 7.00 {
		t.Errorf("Expected subtotal 7.00, got %v", response.Subtotal)
	}
}

func TestGetCart_SalePriceSubtotal(t *testing.T) {
	handler, _, _ := newCartFixture([]domain.CartItem{
		{EntryID: "entry-1", UserID: "user123", ProductID: "prod-2", Name: "Maple Glazed", Image: "maple.jpg", Price: 3.00, SalePrice: 2.50, Quantity: 4},
	})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/", nil), domain.Session{UserID: "user123"})

	handler.GetCart(recorder, request)

	var response CartResponseDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Subtotal != 10.00 {
		t.Errorf("Expected sale-price subtotal 10.00, got %v", response.Subtotal)
	}
}

func TestAddItem_BySlug(t *testing.T) {
	handler, cartRepo, _ := newCartFixture(nil)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "boston-cream", Quantity: 3})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/items", bytes.NewReader(body)), domain.Session{UserID: "user123"})

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	items, _ := cartRepo.ItemsForUser(context.Background(), "user123")
	if len(items) != 1 {
		t.Fatalf("Expected 1 cart entry, got %d", len(items))
	}
	if items[0].ProductID != "prod-1" {
		t.Errorf("Expected product id resolved from slug, got %q", items[0].ProductID)
	}
	if items[0].Price != 3.50 {
		t.Errorf("Expected catalog price snapshotted, got %v", items[0].Price)
	}
}

func TestAddItem_Guest(t *testing.T) {
	handler, _, guest := newCartFixture(nil)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "prod-2", Quantity: 1})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/items", bytes.NewReader(body)), domain.Session{GuestID: "guest-42"})

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	items, _ := guest.Items(context.Background(), "guest-42")
	if len(items) != 1 {
		t.Fatalf("Expected 1 guest entry, got %d", len(items))
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler, _, _ := newCartFixture(nil)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "cronut", Quantity: 1})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/items", bytes.NewReader(body)), domain.Session{UserID: "user123"})

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	handler, _, _ := newCartFixture(nil)

	tests := []struct {
		name     string
		quantity int
	}{
		{"zero quantity", 0},
		{"negative quantity", -1},
		{"quantity too high", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(AddItemRequestDTO{ProductID: "prod-1", Quantity: tt.quantity})
			recorder := httptest.NewRecorder()
			request := withSession(httptest.NewRequest("POST", "/items", bytes.NewReader(body)), domain.Session{UserID: "user123"})

			handler.AddItem(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != "invalid_quantity" {
				t.Errorf("Expected error code 'invalid_quantity', got '%s'", response.Code)
			}
		})
	}
}

func TestAddItem_InvalidJSON(t *testing.T) {
	handler, _, _ := newCartFixture(nil)

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/items", bytes.NewReader([]byte("invalid json"))), domain.Session{UserID: "user123"})

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func withEntryID(request *http.Request, entryID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("entry_id", entryID)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateQuantity_Success(t *testing.T) {
	handler, cartRepo, _ := newCartFixture([]domain.CartItem{
		{EntryID: "entry-1", UserID: "user123", ProductID: "prod-1", Name: "Boston Cream", Image: "boston.jpg", Price: 3.50, Quantity: 2},
	})

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 12})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("PUT", "/items/entry-1", bytes.NewReader(body)), domain.Session{UserID: "user123"})
	request = withEntryID(request, "entry-1")

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	items, _ := cartRepo.ItemsForUser(context.Background(), "user123")
	if items[0].Quantity != 12 {
		t.Errorf("Expected quantity 12, got %d", items[0].Quantity)
	}
}

func TestUpdateQuantity_EntryNotFound(t *testing.T) {
	handler, _, _ := newCartFixture(nil)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 2})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("PUT", "/items/nonexistent", bytes.NewReader(body)), domain.Session{UserID: "user123"})
	request = withEntryID(request, "nonexistent")

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestRemoveEntry_Success(t *testing.T) {
	handler, cartRepo, _ := newCartFixture([]domain.CartItem{
		{EntryID: "entry-1", UserID: "user123", ProductID: "prod-1", Name: "Boston Cream", Image: "boston.jpg", Price: 3.50, Quantity: 2},
	})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/items/entry-1", nil), domain.Session{UserID: "user123"})
	request = withEntryID(request, "entry-1")

	handler.RemoveEntry(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	items, _ := cartRepo.ItemsForUser(context.Background(), "user123")
	if len(items) != 0 {
		t.Errorf("Expected empty cart, got %d entries", len(items))
	}
}
