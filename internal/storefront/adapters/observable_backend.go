package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/dunya/storefront/internal/storefront/adapters/backend"
	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableBackend struct {
	backend ports.Backend
	metrics *backend.Metrics
}

func NewObservableBackend(b ports.Backend, metrics *backend.Metrics) *ObservableBackend {
	return &ObservableBackend{
		backend: b,
		metrics: metrics,
	}
}

func (o *ObservableBackend) CreateOrder(ctx context.Context, order domain.OrderPayload) error {
	ctx, span := telemetry.StartSpan(ctx, "Backend.CreateOrder")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("operation", "create_order"),
		attribute.Int("order.items", len(order.Items)),
	)

	start := time.Now()
	err := o.backend.CreateOrder(ctx, order)
	duration := time.Since(start).Seconds()

	o.metrics.RecordRequest(ctx, "create_order", outcomeFor(err), duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (o *ObservableBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "Backend.ListProducts")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("operation", "list_products"),
	)

	start := time.Now()
	products, err := o.backend.ListProducts(ctx)
	duration := time.Since(start).Seconds()

	o.metrics.RecordRequest(ctx, "list_products", outcomeFor(err), duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(products)))
	telemetry.SetSpanSuccess(span)
	return products, nil
}

func (o *ObservableBackend) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "Backend.GetProduct")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("operation", "get_product"),
		attribute.String("product.slug", slug),
	)

	start := time.Now()
	product, err := o.backend.GetProduct(ctx, slug)
	duration := time.Since(start).Seconds()

	o.metrics.RecordRequest(ctx, "get_product", outcomeFor(err), duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return product, nil
}

func outcomeFor(err error) string {
	var serverErr *ports.ServerError
	var rejectedErr *ports.RejectedError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &rejectedErr):
		return "rejected"
	case errors.Is(err, ports.ErrNotFound):
		return "not_found"
	default:
		return "network_error"
	}
}
