package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dunya/storefront/internal/storefront/app/commands"
	"github.com/dunya/storefront/internal/storefront/app/queries"
	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/metrics"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
)

// Config bounds the pipeline's retry and cooldown behavior.
type Config struct {
	Cooldown      time.Duration
	RetryBase     time.Duration
	RetryAttempts int
}

// Service bundles the storefront use cases behind one facade.
type Service struct {
	records       *state.Records
	submitHandler commands.SubmitHandler
	flushHandler  *commands.FlushQueueCommandHandler
	listHandler   *queries.ListProductsQueryHandler
	getHandler    *queries.GetProductQueryHandler
}

// NewService wires required dependencies.
func NewService(
	backend ports.Backend,
	records *state.Records,
	bus ports.EventBus,
	clock ports.Clock,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	cfg Config,
) *Service {
	coreSubmit := commands.NewSubmitOrderCommandHandler(backend, records, bus)
	observableSubmit := commands.NewObservableSubmitHandler(coreSubmit, logger, metrics)

	return &Service{
		records:       records,
		submitHandler: observableSubmit,
		flushHandler:  commands.NewFlushQueueCommandHandler(backend, records, bus, clock, cfg.Cooldown),
		listHandler:   queries.NewListProductsQueryHandler(backend, records, clock, logger, cfg.RetryBase, cfg.RetryAttempts),
		getHandler:    queries.NewGetProductQueryHandler(backend, records),
	}
}

// SubmitOrder attempts delivery of one order, queueing it on transport failure.
func (s *Service) SubmitOrder(ctx context.Context, order domain.OrderPayload) commands.SubmitResult {
	return s.submitHandler.Handle(ctx, commands.SubmitOrderCommand{Order: order})
}

// FlushQueue runs one pass over the pending-order queue.
func (s *Service) FlushQueue(ctx context.Context) commands.FlushResult {
	return s.flushHandler.Handle(ctx)
}

// ListProducts returns the catalog, falling back to the cache after retries.
func (s *Service) ListProducts(ctx context.Context) queries.ListProductsResult {
	return s.listHandler.Handle(ctx)
}

// GetProduct looks up one product with an immediate cache fallback.
func (s *Service) GetProduct(ctx context.Context, slug string) (queries.GetProductResult, error) {
	return s.getHandler.Handle(ctx, queries.GetProductQuery{Slug: slug})
}

// QueueLength reports the number of pending orders.
func (s *Service) QueueLength(ctx context.Context) int {
	return s.records.QueueLength(ctx)
}
