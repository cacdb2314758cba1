package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
)

// GetProductQuery represents a request to retrieve a product by its slug.
type GetProductQuery struct {
	Slug string
}

// Validate ensures the query has valid parameters.
func (q GetProductQuery) Validate() error {
	if strings.TrimSpace(q.Slug) == "" {
		return errors.New("slug is required")
	}
	return nil
}

// GetProductResult carries the product and whether it was served from the
// local cache after a failed fetch.
type GetProductResult struct {
	Product   *domain.Product
	FromCache bool
}

// GetProductQueryHandler looks up a single product: one direct fetch, then an
// immediate fallback to the cached listing. No retry loop here.
type GetProductQueryHandler struct {
	backend ports.Backend
	records *state.Records
}

// NewGetProductQueryHandler constructs a GetProductQueryHandler.
func NewGetProductQueryHandler(backend ports.Backend, records *state.Records) *GetProductQueryHandler {
	return &GetProductQueryHandler{backend: backend, records: records}
}

// Handle executes the query. Product is nil when the backend failed and the
// cache holds no matching slug.
func (h *GetProductQueryHandler) Handle(ctx context.Context, query GetProductQuery) (GetProductResult, error) {
	if err := query.Validate(); err != nil {
		return GetProductResult{}, err
	}

	product, err := h.backend.GetProduct(ctx, query.Slug)
	if err == nil {
		return GetProductResult{Product: product}, nil
	}

	for _, cached := range h.records.CachedProducts(ctx) {
		if cached.Slug == query.Slug {
			found := cached
			return GetProductResult{Product: &found, FromCache: true}, nil
		}
	}

	return GetProductResult{}, nil
}
