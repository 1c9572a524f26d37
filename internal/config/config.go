// Package config loads runtime settings from the environment and an optional
// dotenv file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSpanner  = "spanner"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds every setting the server reads at startup.
type Config struct {
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration

	Store StoreConfig
	Cache CacheConfig
	Log   LogConfig
	Trace TraceConfig
}

// StoreConfig selects and locates the product store.
type StoreConfig struct {
	Driver      string
	SpannerDB   string
	PostgresDSN string
}

// CacheConfig configures the existence cache.
type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	Size          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// TraceConfig configures OpenTelemetry export.
type TraceConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// Load reads envFilePath if given, then builds the config from the
// environment. A missing env file is not an error.
func Load(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		GRPCPort:        getEnv("GRPC_PORT", "9090"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			SpannerDB:   getEnv("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/product-catalog-db"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
			TTL:           getEnvAsDuration("CACHE_TTL", 30*time.Second),
			Size:          getEnvAsInt("CACHE_SIZE", 10000),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Trace: TraceConfig{
			Enabled:    getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("OTLP_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvAsFloat("TRACE_SAMPLE_RATE", 1.0),
		},
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres store"))
		}
	case DriverSpanner:
		if c.Store.SpannerDB == "" {
			errs = append(errs, errors.New("SPANNER_DATABASE is required for the spanner store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.Cache.Backend))
	}

	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL))
	}
	if c.Cache.Backend == CacheMemory && c.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_SIZE must be positive, got %d", c.Cache.Size))
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATE must be within [0,1], got %v", c.Trace.SampleRate))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("30s") and bare seconds ("30").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	return defaultValue
}
