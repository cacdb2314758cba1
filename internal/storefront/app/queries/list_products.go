package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dunya/storefront/internal/retry"
	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
)

// Messages returned alongside a degraded listing.
const (
	StaleCatalogMessage = "temporary load failure, showing saved products"
	EmptyCatalogMessage = "unable to load products"
)

// ListProductsResult carries the listing together with its provenance: fresh
// from the backend, or the stale cache after retry exhaustion.
type ListProductsResult struct {
	Products []domain.Product
	Stale    bool
	Message  string
}

// ListProductsQueryHandler fetches the catalog with bounded linear backoff.
// A successful attempt overwrites the whole cache; when every attempt fails
// the last good cache is served instead.
type ListProductsQueryHandler struct {
	backend     ports.Backend
	records     *state.Records
	clock       ports.Clock
	logger      *slog.Logger
	base        time.Duration
	maxAttempts int
}

func NewListProductsQueryHandler(
	backend ports.Backend,
	records *state.Records,
	clock ports.Clock,
	logger *slog.Logger,
	base time.Duration,
	maxAttempts int,
) *ListProductsQueryHandler {
	return &ListProductsQueryHandler{
		backend:     backend,
		records:     records,
		clock:       clock,
		logger:      logger,
		base:        base,
		maxAttempts: maxAttempts,
	}
}

func (h *ListProductsQueryHandler) Handle(ctx context.Context) ListProductsResult {
	policy := retry.NewLinear(h.base, h.maxAttempts)

	for attempt := 1; ; attempt++ {
		products, err := h.backend.ListProducts(ctx)
		if err == nil {
			if products == nil {
				products = []domain.Product{}
			}
			if saveErr := h.records.SaveProducts(ctx, products); saveErr != nil {
				h.logger.WarnContext(ctx, "failed to persist product cache", "error", saveErr)
			}
			return ListProductsResult{Products: products}
		}

		h.logger.WarnContext(ctx, "product listing fetch failed",
			"attempt", attempt,
			"error", err,
		)

		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if sleepErr := h.clock.Sleep(ctx, wait); sleepErr != nil {
			break
		}
	}

	cached := h.records.CachedProducts(ctx)
	if len(cached) > 0 {
		return ListProductsResult{Products: cached, Stale: true, Message: StaleCatalogMessage}
	}
	return ListProductsResult{Products: []domain.Product{}, Message: EmptyCatalogMessage}
}
