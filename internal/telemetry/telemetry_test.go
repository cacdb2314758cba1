package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Run("returns error when service name is missing", func(t *testing.T) {
		cfg := Config{
			ServiceName: "",
			SampleRate:  1.0,
		}

		err := cfg.Validate()

		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if !errors.Is(err, ErrMissingServiceName) {
			t.Errorf("expected ErrMissingServiceName, got %v", err)
		}
	})

	t.Run("returns error when sample rate is out of range", func(t *testing.T) {
		for _, rate := range []float64{-0.1, 1.1} {
			cfg := Config{
				ServiceName: "storefront",
				SampleRate:  rate,
			}

			err := cfg.Validate()

			if !errors.Is(err, ErrInvalidSampleRate) {
				t.Errorf("rate %v: expected ErrInvalidSampleRate, got %v", rate, err)
			}
		}
	})

	t.Run("accepts a valid configuration", func(t *testing.T) {
		cfg := Config{
			ServiceName:    "storefront",
			ServiceVersion: "1.0.0",
			SampleRate:     0.5,
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestInitialize(t *testing.T) {
	t.Run("rejects an invalid configuration", func(t *testing.T) {
		_, err := Initialize(context.Background(), Config{})

		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("initializes nothing when tracing and metrics are disabled", func(t *testing.T) {
		tel, err := Initialize(context.Background(), Config{
			ServiceName: "storefront",
			SampleRate:  1.0,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if tel.TracerProvider() != nil {
			t.Error("expected nil tracer provider")
		}
		if tel.MeterProvider() != nil {
			t.Error("expected nil meter provider")
		}

		if err := tel.Shutdown(context.Background()); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})

	t.Run("initializes providers with injected exporters", func(t *testing.T) {
		ctx := context.Background()

		tel, err := Initialize(ctx, Config{
			ServiceName:   "storefront",
			EnableTracing: true,
			EnableMetrics: true,
			SampleRate:    1.0,
		},
			WithTraceExporter(NewNoopTraceExporter()),
			WithMetricExporter(NewNoopMetricExporter()),
		)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if tel.TracerProvider() == nil {
			t.Error("expected a tracer provider")
		}
		if tel.MeterProvider() == nil {
			t.Error("expected a meter provider")
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	})
}
