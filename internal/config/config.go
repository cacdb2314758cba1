package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration for the storefront client.
type Config struct {
	Backend   BackendConfig
	Retry     RetryConfig
	Queue     QueueConfig
	Store     StoreConfig
	Status    StatusConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type RetryConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
}

type QueueConfig struct {
	FlushInterval time.Duration
	Cooldown      time.Duration
}

// StoreConfig selects the state store backend: "bolt" (default), "memory",
// or "redis".
type StoreConfig struct {
	Backend   string
	BoltPath  string
	RedisAddr string
	RedisDB   int
}

type StatusConfig struct {
	Port int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultBackendURL     = "https://dunya-jewellery-backend.onrender.com"
	defaultRequestTimeout = 15 * time.Second
	defaultMaxAttempts    = 3
	defaultBackoffBase    = 800 * time.Millisecond
	defaultFlushInterval  = 30 * time.Second
	defaultCooldown       = 60 * time.Second
	defaultStoreBackend   = "bolt"
	defaultBoltPath       = "storefront.db"
	defaultRedisAddr      = "localhost:6379"
	defaultStatusPort     = 8091
	defaultLogLevel       = "info"
	defaultServiceName    = "storefront-client"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultOTelSampleRate = 1.0
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	backendCfg, err := loadBackendConfig()
	if err != nil {
		return nil, fmt.Errorf("loading backend config: %w", err)
	}

	retryCfg, err := loadRetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading retry config: %w", err)
	}

	queueCfg, err := loadQueueConfig()
	if err != nil {
		return nil, fmt.Errorf("loading queue config: %w", err)
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	statusCfg, err := loadStatusConfig()
	if err != nil {
		return nil, fmt.Errorf("loading status config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		Backend:   backendCfg,
		Retry:     retryCfg,
		Queue:     queueCfg,
		Store:     storeCfg,
		Status:    statusCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadBackendConfig() (BackendConfig, error) {
	timeout, err := getDurationEnv("SHOP_API_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return BackendConfig{}, err
	}

	return BackendConfig{
		BaseURL:        getEnvOrDefault("SHOP_API_URL", defaultBackendURL),
		RequestTimeout: timeout,
	}, nil
}

func loadRetryConfig() (RetryConfig, error) {
	attempts := defaultMaxAttempts
	if value, ok := os.LookupEnv("FETCH_MAX_ATTEMPTS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			return RetryConfig{}, fmt.Errorf("invalid FETCH_MAX_ATTEMPTS: %q", value)
		}
		attempts = parsed
	}

	base, err := getDurationEnv("FETCH_BACKOFF_BASE", defaultBackoffBase)
	if err != nil {
		return RetryConfig{}, err
	}

	return RetryConfig{MaxAttempts: attempts, BackoffBase: base}, nil
}

func loadQueueConfig() (QueueConfig, error) {
	interval, err := getDurationEnv("QUEUE_FLUSH_INTERVAL", defaultFlushInterval)
	if err != nil {
		return QueueConfig{}, err
	}

	cooldown, err := getDurationEnv("QUEUE_COOLDOWN", defaultCooldown)
	if err != nil {
		return QueueConfig{}, err
	}

	return QueueConfig{FlushInterval: interval, Cooldown: cooldown}, nil
}

func loadStoreConfig() (StoreConfig, error) {
	backend := getEnvOrDefault("STATE_STORE", defaultStoreBackend)
	switch backend {
	case "bolt", "memory", "redis":
	default:
		return StoreConfig{}, fmt.Errorf("invalid STATE_STORE: %q", backend)
	}

	redisDB := 0
	if value, ok := os.LookupEnv("STATE_REDIS_DB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return StoreConfig{}, fmt.Errorf("invalid STATE_REDIS_DB: %w", err)
		}
		redisDB = parsed
	}

	return StoreConfig{
		Backend:   backend,
		BoltPath:  getEnvOrDefault("STATE_BOLT_PATH", defaultBoltPath),
		RedisAddr: getEnvOrDefault("STATE_REDIS_ADDR", defaultRedisAddr),
		RedisDB:   redisDB,
	}, nil
}

func loadStatusConfig() (StatusConfig, error) {
	port := defaultStatusPort
	if value, ok := os.LookupEnv("STATUS_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return StatusConfig{}, fmt.Errorf("invalid STATUS_PORT: %w", err)
		}
		port = parsed
	}

	return StatusConfig{Port: port}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableTracing: getBoolEnv("OTEL_ENABLE_TRACING", false),
		EnableMetrics: getBoolEnv("OTEL_ENABLE_METRICS", false),
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
