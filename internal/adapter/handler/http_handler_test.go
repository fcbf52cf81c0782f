package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

func product(id int, title, category, price string) domain.Product {
	return domain.Product{ID: id, Title: title, Category: category, Price: decimal.RequireFromString(price)}
}

func newLoadedStore(t *testing.T) *service.Store {
	t.Helper()
	store := service.NewStore(nil)
	_, err := store.Dispatch(service.CatalogLoaded{Catalog: domain.NewCatalog([]domain.Product{
		product(1, "Red Shoe", "shoes", "49.99"),
		product(2, "Blue Shirt", "shirts", "19.50"),
		product(3, "Blue Shoe", "shoes", "59.00"),
	})})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return store
}

func serve(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := sonic.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	e := NewEcho(NewHTTPHandler(service.NewStore(nil), nil))

	rec := serve(t, e, http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
}

func TestGetStorefront(t *testing.T) {
	e := NewEcho(NewHTTPHandler(newLoadedStore(t), nil))

	rec := serve(t, e, http.MethodGet, "/api/storefront", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	resp := decode[StorefrontResponse](t, rec)
	if resp.Loading {
		t.Error("expected loading false")
	}
	if diff := cmp.Diff([]string{"All", "shoes", "shirts"}, resp.Categories); diff != "" {
		t.Errorf("unexpected categories (-want +got):\n%s", diff)
	}
	if len(resp.Products) != 3 || resp.Cart.Total != "0.00" || len(resp.Cart.Lines) != 0 {
		t.Errorf("unexpected storefront: %+v", resp)
	}
}

func TestFilterEndpoints(t *testing.T) {
	e := NewEcho(NewHTTPHandler(newLoadedStore(t), nil))

	if rec := serve(t, e, http.MethodPut, "/api/filter/category", `{"category":"shoes"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if rec := serve(t, e, http.MethodPut, "/api/filter/search", `{"query":"RED"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	products := decode[[]domain.Product](t, serve(t, e, http.MethodGet, "/api/products", ""))
	if len(products) != 1 || products[0].Title != "Red Shoe" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestCartFlow(t *testing.T) {
	e := NewEcho(NewHTTPHandler(newLoadedStore(t), nil))

	serve(t, e, http.MethodPost, "/api/cart/items", `{"productId":1}`)
	serve(t, e, http.MethodPost, "/api/cart/items", `{"productId":2}`)
	serve(t, e, http.MethodPost, "/api/cart/items", `{"productId":1}`)
	serve(t, e, http.MethodPost, "/api/cart/lines/1/increase", "")
	serve(t, e, http.MethodPost, "/api/cart/lines/0/decrease", "")
	rec := serve(t, e, http.MethodPost, "/api/cart/toggle", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	cart := decode[CartResponse](t, rec)
	if !cart.Open {
		t.Error("expected cart to be open")
	}
	if cart.ItemCount != 3 || cart.Total != "88.99" {
		t.Errorf("expected 3 items totalling 88.99, got %d and %s", cart.ItemCount, cart.Total)
	}

	rec = serve(t, e, http.MethodDelete, "/api/cart/lines/0", "")
	cart = decode[CartResponse](t, rec)
	if len(cart.Lines) != 1 || cart.Lines[0].ID != 2 || cart.Lines[0].Quantity != 2 {
		t.Errorf("unexpected lines after remove: %+v", cart.Lines)
	}

	rec = serve(t, e, http.MethodPost, "/api/cart/checkout", "")
	if got := decode[CartResponse](t, rec); got.ItemCount != 2 {
		t.Errorf("expected checkout to leave the cart alone, got %d items", got.ItemCount)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		store  func(t *testing.T) *service.Store
		method string
		target string
		body   string
		want   int
	}{
		{name: "unknown product", store: newLoadedStore, method: http.MethodPost, target: "/api/cart/items", body: `{"productId":99}`, want: http.StatusNotFound},
		{name: "missing product id", store: newLoadedStore, method: http.MethodPost, target: "/api/cart/items", body: `{}`, want: http.StatusBadRequest},
		{name: "bad body", store: newLoadedStore, method: http.MethodPost, target: "/api/cart/items", body: `{"productId":`, want: http.StatusBadRequest},
		{name: "unknown category", store: newLoadedStore, method: http.MethodPut, target: "/api/filter/category", body: `{"category":"garden"}`, want: http.StatusBadRequest},
		{name: "line out of range", store: newLoadedStore, method: http.MethodPost, target: "/api/cart/lines/0/increase", want: http.StatusNotFound},
		{name: "negative line", store: newLoadedStore, method: http.MethodDelete, target: "/api/cart/lines/-1", want: http.StatusNotFound},
		{name: "non numeric line", store: newLoadedStore, method: http.MethodPost, target: "/api/cart/lines/x/decrease", want: http.StatusBadRequest},
		{
			name:   "still loading",
			store:  func(*testing.T) *service.Store { return service.NewStore(nil) },
			method: http.MethodPost, target: "/api/cart/items", body: `{"productId":1}`, want: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEcho(NewHTTPHandler(tt.store(t), nil))

			rec := serve(t, e, tt.method, tt.target, tt.body)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
			if msg := decode[MessageResponse](t, rec); msg.Message == "" {
				t.Error("expected an error message")
			}
		})
	}
}
