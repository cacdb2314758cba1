package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersSubmittedTotal metric.Int64Counter
	submitDuration       metric.Float64Histogram
	ordersFlushedTotal   metric.Int64Counter
	flushDuration        metric.Float64Histogram
	queueDepth           metric.Int64Gauge
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersSubmittedTotal, err = meter.Int64Counter(
		"orders_submitted_total",
		metric.WithDescription("Total order submissions by outcome"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_submitted_total counter: %w", err)
	}

	m.submitDuration, err = meter.Float64Histogram(
		"order_submit_duration_seconds",
		metric.WithDescription("Duration of order submission attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_submit_duration histogram: %w", err)
	}

	m.ordersFlushedTotal, err = meter.Int64Counter(
		"orders_flushed_total",
		metric.WithDescription("Queued orders processed by flush passes, by result"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_flushed_total counter: %w", err)
	}

	m.flushDuration, err = meter.Float64Histogram(
		"queue_flush_duration_seconds",
		metric.WithDescription("Duration of queue flush passes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queue_flush_duration histogram: %w", err)
	}

	m.queueDepth, err = meter.Int64Gauge(
		"order_queue_depth",
		metric.WithDescription("Pending orders in the persisted queue"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_queue_depth gauge: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderSubmitted(ctx context.Context, outcome string) {
	m.ordersSubmittedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordSubmitDuration(ctx context.Context, durationSeconds float64) {
	m.submitDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordOrdersFlushed(ctx context.Context, result string, count int) {
	if count <= 0 {
		return
	}
	m.ordersFlushedTotal.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordFlushDuration(ctx context.Context, durationSeconds float64) {
	m.flushDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordQueueDepth(ctx context.Context, depth int) {
	m.queueDepth.Record(ctx, int64(depth))
}
