package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"craftstore/internal/domain"
	"craftstore/internal/repository"
	"craftstore/internal/service"
	"craftstore/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	seedCatalog := []domain.Product{
		{ID: 1, Name: "Handwoven Ikat Stole", Price: 1450, Category: "Textile Weaves", Stock: 10, ReorderLevel: 4},
		{ID: 2, Name: "Brass Urli Bowl", Price: 3200, Category: "Metal Crafts", Stock: 0, ReorderLevel: 4},
	}
	if err := s.Seed(seedCatalog); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	logger := zap.NewNop()
	catalogRepo := repository.NewCatalogRepository(s)
	cartRepo := repository.NewCartRepository(s)
	orderRepo := repository.NewOrderRepository(s)
	checkoutService := service.NewCheckoutService(s, logger)
	warehouseService := service.NewWarehouseService(s, catalogRepo, orderRepo, seedCatalog, logger)

	router := chi.NewRouter()
	NewProductHandler(catalogRepo, logger).RegisterRoutes(router)
	NewCartHandler(cartRepo, catalogRepo, logger).RegisterRoutes(router)
	NewOrderHandler(checkoutService, orderRepo, logger).RegisterRoutes(router)
	NewWarehouseHandler(warehouseService, logger).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func checkoutBody() map[string]string {
	return map[string]string{
		"name":          "Meera Pillai",
		"phone":         "9876543210",
		"address":       "14 Weaver Lane, Mysuru",
		"paymentMethod": "cod",
	}
}

func TestListProductsIncludesStockStatus(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "GET", "/api/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var products []ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].StockStatus != domain.StockStatusIn || products[1].StockStatus != domain.StockStatusOut {
		t.Fatalf("unexpected stock statuses: %+v", products)
	}
}

func TestListProductsFiltersByCategory(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "GET", "/api/products?category=Metal+Crafts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var products []ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(products) != 1 || products[0].ID != 2 {
		t.Fatalf("expected only product 2, got %+v", products)
	}
}

func TestGetProductNotFound(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, "GET", "/api/products/404", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doJSON(t, router, "GET", "/api/products/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddToCartAndCount(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", "/api/cart/count", nil)
	var count CartCountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &count); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if count.Count != 2 {
		t.Fatalf("expected count 2, got %d", count.Count)
	}
}

func TestAddToCartEnforcesStockAtSurface(t *testing.T) {
	router := newTestRouter(t)

	// Product 2 is out of stock entirely.
	w := doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 2, "quantity": 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for out-of-stock, got %d", w.Code)
	}

	// Repeated adds cannot run past the shelf (stock 10).
	if w := doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 8}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 5}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for cumulative overrun, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 404, "quantity": 1})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestUpdateCartQuantityBounds(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 2})

	if w := doJSON(t, router, "PUT", "/api/cart/items/1", map[string]int{"quantity": 5}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// Zero is rejected at this surface; removal has its own endpoint.
	if w := doJSON(t, router, "PUT", "/api/cart/items/1", map[string]int{"quantity": 0}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", w.Code)
	}
	if w := doJSON(t, router, "PUT", "/api/cart/items/1", map[string]int{"quantity": 11}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for over-stock quantity, got %d", w.Code)
	}

	if w := doJSON(t, router, "DELETE", "/api/cart/items/1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)

	// Empty cart is a conflict, not a validation error.
	if w := doJSON(t, router, "POST", "/api/checkout", checkoutBody()); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty cart, got %d", w.Code)
	}

	doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 3})

	// Missing required fields fail validation.
	incomplete := checkoutBody()
	delete(incomplete, "phone")
	if w := doJSON(t, router, "POST", "/api/checkout", incomplete); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing phone, got %d", w.Code)
	}

	w := doJSON(t, router, "POST", "/api/checkout", checkoutBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var order domain.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("failed to parse order: %v", err)
	}
	if order.Status != domain.StatusProcessing || len(order.Items) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}

	// The order is retrievable and the cart is empty.
	if w := doJSON(t, router, "GET", "/api/orders/"+order.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = doJSON(t, router, "GET", "/api/cart/count", nil)
	var count CartCountResponse
	json.Unmarshal(w.Body.Bytes(), &count)
	if count.Count != 0 {
		t.Fatalf("expected empty cart, got %d", count.Count)
	}
}

func TestOrderStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 1})
	w := doJSON(t, router, "POST", "/api/checkout", checkoutBody())
	var order domain.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("failed to parse order: %v", err)
	}

	// Skipping straight to Delivered is rejected.
	if w := doJSON(t, router, "POST", "/api/orders/"+order.ID+"/status", map[string]string{"status": "Delivered"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for skipped transition, got %d", w.Code)
	}

	if w := doJSON(t, router, "POST", "/api/orders/"+order.ID+"/status", map[string]string{"status": "Dispatched"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, router, "POST", "/api/orders/"+order.ID+"/status", map[string]string{"status": "Cancelled"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}

	if w := doJSON(t, router, "POST", "/api/orders/ORD-MISSING/status", map[string]string{"status": "Dispatched"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", w.Code)
	}
}

func TestWarehouseEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "GET", "/api/warehouse/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats service.WarehouseStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}
	if stats.TotalProducts != 2 || stats.LowStock != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if w := doJSON(t, router, "POST", "/api/warehouse/restock", map[string]int{"productId": 2, "quantity": 6}); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", "/api/warehouse/low-stock", nil)
	var flagged []ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &flagged); err != nil {
		t.Fatalf("failed to parse low-stock: %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("expected no flagged products after restock, got %+v", flagged)
	}

	// Fill the cart, then reset everything back to the seed.
	doJSON(t, router, "POST", "/api/cart/items", map[string]int{"productId": 1, "quantity": 1})
	if w := doJSON(t, router, "POST", "/api/warehouse/reset", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, router, "GET", "/api/cart/count", nil)
	var count CartCountResponse
	json.Unmarshal(w.Body.Bytes(), &count)
	if count.Count != 0 {
		t.Fatalf("expected empty cart after reset, got %d", count.Count)
	}
}
