package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/light-bringer/productcat/internal/config"
	"github.com/light-bringer/productcat/internal/logging"
	"github.com/light-bringer/productcat/internal/observability"
	"github.com/light-bringer/productcat/internal/services"
)

var version = "dev"

var envFile = flag.String("env", ".env", "optional dotenv file")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logging
	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	logger.Info("starting product catalog service",
		"version", version,
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Backend,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// 2. Tracing
	if err := observability.Init(ctx, observability.Config{
		Enabled:     cfg.Trace.Enabled,
		Endpoint:    cfg.Trace.Endpoint,
		ServiceName: "productcat",
		Version:     version,
		SampleRate:  cfg.Trace.SampleRate,
	}); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// 3. Dependencies
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 4. gRPC health
	if err := serviceOpts.GRPCServer.Start(":" + cfg.GRPCPort); err != nil {
		return err
	}
	go serviceOpts.GRPCServer.Watch(ctx)

	// 5. HTTP
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           serviceOpts.HTTP,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
	}

	return shutdown(logger, cfg.ShutdownTimeout, httpServer, serviceOpts)
}

func shutdown(logger *slog.Logger, timeout time.Duration, httpServer *http.Server, opts *services.ServiceOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	opts.GRPCServer.Stop()
	if err := observability.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("shutdown finished with errors", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
