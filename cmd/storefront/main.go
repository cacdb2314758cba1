package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/dunya/storefront/internal/cart"
	"github.com/dunya/storefront/internal/config"
	"github.com/dunya/storefront/internal/notify"
	"github.com/dunya/storefront/internal/status"
	"github.com/dunya/storefront/internal/storefront/adapters"
	backendclient "github.com/dunya/storefront/internal/storefront/adapters/backend"
	boltstore "github.com/dunya/storefront/internal/storefront/adapters/bolt"
	memorystore "github.com/dunya/storefront/internal/storefront/adapters/memory"
	redisstore "github.com/dunya/storefront/internal/storefront/adapters/redis"
	storefrontapp "github.com/dunya/storefront/internal/storefront/app"
	storefrontmetrics "github.com/dunya/storefront/internal/storefront/metrics"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
	"github.com/dunya/storefront/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.EnableTracing || cfg.Telemetry.EnableMetrics {
		tel, err := telemetry.Initialize(ctx, telemetry.Config{
			ServiceName:    cfg.Service.Name,
			ServiceVersion: cfg.Service.Version,
			Environment:    cfg.Service.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
			EnableTracing:  cfg.Telemetry.EnableTracing,
			EnableMetrics:  cfg.Telemetry.EnableMetrics,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			logger.Error("failed to initialize telemetry", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		logger.Error("failed to open state store", "error", err, "backend", cfg.Store.Backend)
		os.Exit(1)
	}
	defer closeStore()

	meter := otel.Meter("github.com/dunya/storefront")

	backendMetrics, err := backendclient.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create backend metrics", "error", err)
		os.Exit(1)
	}

	pipelineMetrics, err := storefrontmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create pipeline metrics", "error", err)
		os.Exit(1)
	}

	clock := ports.SystemClock{}
	broadcaster := notify.NewBroadcaster()
	records := state.New(store, broadcaster, clock)

	client := backendclient.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, logger)
	observableBackend := adapters.NewObservableBackend(client, backendMetrics)

	service := storefrontapp.NewService(observableBackend, records, broadcaster, clock, logger, pipelineMetrics, storefrontapp.Config{
		Cooldown:      cfg.Queue.Cooldown,
		RetryBase:     cfg.Retry.BackoffBase,
		RetryAttempts: cfg.Retry.MaxAttempts,
	})
	basket := cart.NewManager(store)

	tracker := status.NewTracker(broadcaster, records.QueueLength(ctx))
	defer tracker.Close()

	// Warm the catalog cache in the background; a failure here already
	// falls back to whatever the store holds.
	go func() {
		result := service.ListProducts(ctx)
		if result.Message != "" {
			logger.Warn("catalog warm-up degraded", "message", result.Message, "stale", result.Stale)
			return
		}
		logger.Info("catalog cached", "products", len(result.Products))
	}()

	go runFlushLoop(ctx, service, pipelineMetrics, records, cfg.Queue.FlushInterval, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, tracker.Snapshot())
	})
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"items":     basket.Items(r.Context()),
			"total_uzs": basket.Total(r.Context()),
		})
	})

	handler := withRecovery(withLogging(mux))

	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Status.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("status server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("status server stopped")
	}
}

func openStore(cfg config.StoreConfig) (ports.StateStore, func(), error) {
	switch cfg.Backend {
	case "memory":
		return memorystore.NewStore(), func() {}, nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		return redisstore.NewStore(client), func() { _ = client.Close() }, nil
	default:
		store, err := boltstore.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}

func runFlushLoop(
	ctx context.Context,
	service *storefrontapp.Service,
	metrics *storefrontmetrics.Metrics,
	records *state.Records,
	interval time.Duration,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			result := service.FlushQueue(ctx)
			if result.Skipped {
				continue
			}

			metrics.RecordFlushDuration(ctx, time.Since(start).Seconds())
			metrics.RecordOrdersFlushed(ctx, "delivered", result.Delivered)
			metrics.RecordOrdersFlushed(ctx, "requeued", result.Requeued)
			metrics.RecordOrdersFlushed(ctx, "discarded", result.Discarded)
			metrics.RecordQueueDepth(ctx, records.QueueLength(ctx))

			if result.Attempted > 0 {
				logger.Info("queue flush pass finished",
					"attempted", result.Attempted,
					"delivered", result.Delivered,
					"requeued", result.Requeued,
					"discarded", result.Discarded,
				)
			}
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
