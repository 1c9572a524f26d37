package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/light-bringer/productcat/internal/observability"
)

// Pinger reports backend connectivity for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the pieces mounted on the public mux.
type RouterConfig struct {
	Handler  *Handler
	Pinger   Pinger          // optional
	Metrics  http.Handler    // optional, served on /metrics
	Recorder RequestRecorder // optional
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler tree. Every API route gets its own
// span and metrics labelled with its pattern.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, observability.HTTPMiddleware(pattern, withMetrics(cfg.Recorder, pattern, fn)))
	}

	h := cfg.Handler
	route("POST /api/v1/product", h.create)
	route("PATCH /api/v1/product", h.update)
	route("GET /api/v1/product/exists", h.exists)
	route("GET /api/v1/product/{id}", h.get)

	mux.Handle("GET /healthz", healthHandler(cfg.Pinger))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return WithRequestID(WithLogging(logger, WithRecover(logger, mux)))
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
