package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dunya/storefront/internal/storefront/metrics"
	"github.com/dunya/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableSubmitHandler struct {
	handler SubmitHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableSubmitHandler(handler SubmitHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableSubmitHandler {
	return &ObservableSubmitHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableSubmitHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) SubmitResult {
	ctx, span := telemetry.StartSpan(ctx, "SubmitOrderCommand.Handle")
	defer span.End()

	o.logger.InfoContext(ctx, "submitting order",
		"customer_name", cmd.Order.CustomerName,
		"items", len(cmd.Order.Items),
	)

	start := time.Now()
	result := o.handler.Handle(ctx, cmd)
	duration := time.Since(start).Seconds()

	o.metrics.RecordSubmitDuration(ctx, duration)
	o.metrics.RecordOrderSubmitted(ctx, result.Outcome)

	telemetry.AddSpanAttributes(span,
		attribute.String("submit.outcome", result.Outcome),
		attribute.Bool("submit.delivered", result.Delivered),
		attribute.Bool("submit.queued", result.Queued),
	)

	switch {
	case result.Delivered:
		o.logger.InfoContext(ctx, "order delivered",
			"customer_name", cmd.Order.CustomerName,
		)
		telemetry.SetSpanSuccess(span)
	case result.Queued:
		o.logger.WarnContext(ctx, "order queued for later delivery",
			"customer_name", cmd.Order.CustomerName,
		)
		telemetry.SetSpanSuccess(span)
	default:
		o.logger.ErrorContext(ctx, "order submission failed",
			"outcome", result.Outcome,
			"message", result.Message,
		)
	}

	return result
}
