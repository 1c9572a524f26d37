package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "productcat.v1.ProductCatalog"

// Pinger checks the product store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config configures the gRPC server.
type Config struct {
	Pinger        Pinger
	CheckInterval time.Duration // default 10s
	CheckTimeout  time.Duration // default 2s
	Logger        *slog.Logger
}

// Server exposes gRPC health and reflection. Health follows store pings.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	interval   time.Duration
	timeout    time.Duration
	logger     *slog.Logger
	listener   net.Listener
}

// NewServer builds the server with health and reflection registered.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(loggingInterceptor(logger)),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		pinger:     cfg.Pinger,
		interval:   interval,
		timeout:    timeout,
		logger:     logger,
	}
}

// Start listens on address and serves in the background.
func (s *Server) Start(address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.Serve(lis)
	return nil
}

// Serve serves on lis in the background.
func (s *Server) Serve(lis net.Listener) {
	s.listener = lis
	s.logger.Info("gRPC server starting", "address", lis.Addr().String())

	go func() {
		if err := s.grpcServer.Serve(lis); err != nil {
			s.logger.Error("gRPC server error", "error", err)
		}
	}()
}

// Watch pings the store every interval until ctx ends, flipping health
// between SERVING and NOT_SERVING.
func (s *Server) Watch(ctx context.Context) {
	if s.pinger == nil {
		return
	}
	s.Check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check pings the store once and records the result.
func (s *Server) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.pinger.Ping(pingCtx)
		cancel()
		if err != nil {
			s.logger.Warn("store ping failed", "error", err)
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Stop marks the server not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.logger.Info("stopping gRPC server")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	if s.listener != nil {
		s.listener.Close()
	}
}
