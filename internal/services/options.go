package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/light-bringer/productcat/internal/app/product"
	"github.com/light-bringer/productcat/internal/app/product/contracts"
	"github.com/light-bringer/productcat/internal/app/product/queries/check_existence"
	"github.com/light-bringer/productcat/internal/app/product/repo"
	"github.com/light-bringer/productcat/internal/app/product/usecases/create_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/get_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/update_product"
	"github.com/light-bringer/productcat/internal/cache"
	"github.com/light-bringer/productcat/internal/config"
	"github.com/light-bringer/productcat/internal/metrics"
	"github.com/light-bringer/productcat/internal/pkg/clock"
	"github.com/light-bringer/productcat/internal/transport/grpc"
	httphandler "github.com/light-bringer/productcat/internal/transport/http"
)

// store is what every product store backend provides.
type store interface {
	contracts.UnitOfWork
	contracts.ExistenceChecker
	contracts.Pinger
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Service    *product.Service
	Metrics    *metrics.Metrics
	HTTP       http.Handler
	GRPCServer *grpc.Server

	closers []func()
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServiceOptions, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := &ServiceOptions{Metrics: metrics.New()}

	// 1. Product store
	st, err := opts.openStore(ctx, cfg.Store, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}

	// 2. Existence cache
	existence, err := opts.openCache(ctx, cfg.Cache, logger)
	if err != nil {
		opts.Close()
		return nil, err
	}

	// 3. Use cases and queries
	opts.Service = product.NewService(
		create_product.NewInteractor(st, logger),
		update_product.NewInteractor(st, logger),
		get_product.NewInteractor(st, logger),
		check_existence.NewQuery(st, existence, opts.Metrics, logger),
	)

	// 4. Transports
	opts.HTTP = httphandler.NewRouter(httphandler.RouterConfig{
		Handler:  httphandler.NewHandler(opts.Service, logger),
		Pinger:   st,
		Metrics:  opts.Metrics.Handler(),
		Recorder: opts.Metrics,
		Logger:   logger,
	})
	opts.GRPCServer = grpc.NewServer(grpc.Config{Pinger: st, Logger: logger})

	return opts, nil
}

func (s *ServiceOptions) openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach postgres: %w", err)
		}
		logger.Info("using postgres product store")
		productRepo := repo.NewPgProductRepo(pool)
		return pgStore{
			PgUnitOfWork:  repo.NewPgUnitOfWork(productRepo),
			PgProductRepo: productRepo,
		}, nil

	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		logger.Info("using spanner product store", "database", cfg.SpannerDB)
		productRepo := repo.NewProductRepo(client)
		return spannerStore{
			SpannerUnitOfWork: repo.NewSpannerUnitOfWork(productRepo),
			ProductRepo:       productRepo,
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory product store; data is lost on restart")
		return repo.NewMemoryRepo(clock.NewRealClock()), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (s *ServiceOptions) openCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (contracts.ExistenceCache, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		c := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}, s.Metrics)
		s.closers = append(s.closers, func() { _ = c.Close() })
		if err := c.Ping(ctx); err != nil {
			// Reads fall through to the store while Redis is down.
			logger.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
		}
		return c, nil

	case config.CacheMemory:
		return cache.NewMemory(cfg.Size, cfg.TTL, s.Metrics), nil

	case config.CacheNone:
		return cache.NewNop(), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Close closes all resources in reverse order of creation.
func (s *ServiceOptions) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// pgStore and spannerStore join each backend's unit of work with the
// repository that answers existence checks and pings.
type pgStore struct {
	*repo.PgUnitOfWork
	*repo.PgProductRepo
}

type spannerStore struct {
	*repo.SpannerUnitOfWork
	*repo.ProductRepo
}
