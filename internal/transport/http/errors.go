package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/observability"
)

// Transport level input errors. Both are client errors.
var (
	errMalformedBody = errors.New("malformed request body")
	errInvalidID     = errors.New("invalid product id")
)

// ServiceError is the body of every error response.
type ServiceError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// statusFor maps an error to the HTTP status and the message shown to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errMalformedBody), errors.Is(err, errInvalidID):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrProductNotFound):
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return http.StatusNotFound, nf.Error()
		}
		return http.StatusNotFound, domain.ErrProductNotFound.Error()

	default:
		// Store and connectivity failures are not exposed.
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"trace_id", observability.TraceID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, ServiceError{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
