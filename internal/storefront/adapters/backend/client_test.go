package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dunya/storefront/internal/storefront/adapters/backend"
	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOrder() domain.OrderPayload {
	return domain.OrderPayload{
		CustomerName: "Aziza",
		Phone:        "+998901234567",
		Address:      "Tashkent, Chilonzor",
		Items:        []domain.OrderItem{{ProductSlug: "silver-ring", Size: 17, Qty: 2}},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("posts the serialized order and succeeds on 201", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/api/orders/" {
				t.Errorf("expected path /api/orders/, got %s", r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected json content type, got %q", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		if err := client.CreateOrder(context.Background(), testOrder()); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		customer, _ := received["customer"].(map[string]any)
		if customer["name"] != "Aziza" {
			t.Errorf("expected customer name Aziza, got %v", customer["name"])
		}
		items, _ := received["items"].([]any)
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		item, _ := items[0].(map[string]any)
		if item["productSlug"] != "silver-ring" || item["selectedSize"] != float64(17) || item["qty"] != float64(2) {
			t.Errorf("unexpected item payload: %v", item)
		}
		meta, _ := received["meta"].(map[string]any)
		if meta["locale"] != "ru" || meta["theme"] != "light" {
			t.Errorf("expected default meta, got %v", meta)
		}
	})

	t.Run("treats 409 as success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		if err := client.CreateOrder(context.Background(), testOrder()); err != nil {
			t.Fatalf("expected no error for 409, got: %v", err)
		}
	})

	t.Run("maps 5xx to a server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		err := client.CreateOrder(context.Background(), testOrder())

		var serverErr *ports.ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("expected ServerError, got: %v", err)
		}
		if serverErr.StatusCode != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", serverErr.StatusCode)
		}
	})

	t.Run("maps 4xx to a rejection with the items message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"items": "product silver-ring is out of stock", "detail": "invalid"}`))
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		err := client.CreateOrder(context.Background(), testOrder())

		var rejected *ports.RejectedError
		if !errors.As(err, &rejected) {
			t.Fatalf("expected RejectedError, got: %v", err)
		}
		if rejected.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rejected.StatusCode)
		}
		if rejected.Message != "product silver-ring is out of stock" {
			t.Errorf("unexpected rejection message: %q", rejected.Message)
		}
	})

	t.Run("falls back to the detail field and compacts non-string values", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			message string
		}{
			{
				name:    "string detail",
				body:    `{"detail": "order validation failed"}`,
				message: "order validation failed",
			},
			{
				name:    "structured items re-encoded",
				body:    `{"items": [{"qty": "must be positive"}]}`,
				message: `[{"qty":"must be positive"}]`,
			},
			{
				name:    "no recognized field",
				body:    `{"error": "nope"}`,
				message: "",
			},
			{
				name:    "unparseable body",
				body:    `not json at all`,
				message: "",
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = w.Write([]byte(tc.body))
				}))
				defer server.Close()

				client := backend.NewClient(server.URL, time.Second, testLogger())

				err := client.CreateOrder(context.Background(), testOrder())

				var rejected *ports.RejectedError
				if !errors.As(err, &rejected) {
					t.Fatalf("expected RejectedError, got: %v", err)
				}
				if rejected.Message != tc.message {
					t.Errorf("expected message %q, got %q", tc.message, rejected.Message)
				}
			})
		}
	})

	t.Run("returns a plain error on transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		err := client.CreateOrder(context.Background(), testOrder())
		if err == nil {
			t.Fatal("expected an error")
		}
		var serverErr *ports.ServerError
		var rejected *ports.RejectedError
		if errors.As(err, &serverErr) || errors.As(err, &rejected) {
			t.Errorf("expected an untyped transport error, got: %v", err)
		}
	})
}

func TestListProducts(t *testing.T) {
	t.Run("decodes the listing and requests a fresh copy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/products/" {
				t.Errorf("expected path /api/products/, got %s", r.URL.Path)
			}
			if cc := r.Header.Get("Cache-Control"); cc != "no-store" {
				t.Errorf("expected Cache-Control no-store, got %q", cc)
			}
			_, _ = w.Write([]byte(`[{"slug": "silver-ring", "title": "Silver Ring", "sizes": [16, {"size": 17}]}]`))
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		products, err := client.ListProducts(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(products) != 1 {
			t.Fatalf("expected 1 product, got %d", len(products))
		}
		if products[0].Slug != "silver-ring" {
			t.Errorf("expected slug silver-ring, got %s", products[0].Slug)
		}
		if sizes := products[0].SizeValues(); len(sizes) != 2 || sizes[0] != 16 || sizes[1] != 17 {
			t.Errorf("expected sizes [16 17], got %v", sizes)
		}
	})

	t.Run("fails on a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		if _, err := client.ListProducts(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("fetches a single product by slug", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/products/gold-chain/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"slug": "gold-chain", "title": "Gold Chain", "price_uzs": 1250000}`))
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		product, err := client.GetProduct(context.Background(), "gold-chain")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if product.Slug != "gold-chain" || product.PriceUZS != 1250000 {
			t.Errorf("unexpected product: %+v", product)
		}
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := backend.NewClient(server.URL, time.Second, testLogger())

		_, err := client.GetProduct(context.Background(), "missing")
		if !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got: %v", err)
		}
	})
}
