package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/light-bringer/productcat/internal/app/product/domain"
	"github.com/light-bringer/productcat/internal/app/product/usecases/create_product"
	"github.com/light-bringer/productcat/internal/app/product/usecases/update_product"
)

// maxBodyBytes bounds product request bodies.
const maxBodyBytes = 1 << 20

// ProductService is what the handler needs from the application layer.
// *product.Service satisfies it.
type ProductService interface {
	Create(ctx context.Context, req *create_product.Request) (*domain.Product, error)
	Update(ctx context.Context, req *update_product.Request) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	IsProductsExists(ctx context.Context, ids []int64) (domain.ExistenceResult, error)
	IsProductExists(ctx context.Context, id int64) (bool, error)
}

// Handler serves the /api/v1/product endpoints.
type Handler struct {
	svc    ProductService
	logger *slog.Logger
}

// NewHandler creates a new HTTP product handler.
func NewHandler(svc ProductService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// create handles POST /api/v1/product. Any id in the body is ignored.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProduct(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req *create_product.Request
	if body != nil {
		req = &create_product.Request{Name: body.Name, Price: body.Price}
	}

	product, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// update handles PATCH /api/v1/product.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProduct(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req *update_product.Request
	if body != nil {
		req = &update_product.Request{Name: body.Name, Price: body.Price}
		if body.ID != nil {
			req.ID = *body.ID
		}
	}

	product, err := h.svc.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// get handles GET /api/v1/product/{id}.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// exists handles GET /api/v1/product/exists?id=1&id=2 and ?id=1,2.
// The response maps every requested id to true or false.
func (h *Handler) exists(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query()["id"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if len(ids) == 1 {
		ok, err := h.svc.IsProductExists(r.Context(), ids[0])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.ExistenceResult{ids[0]: ok})
		return
	}

	result, err := h.svc.IsProductsExists(r.Context(), ids)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeProduct reads a product body. An empty or null body yields nil so
// validation reports the missing product. The body must hold exactly one
// JSON value.
func decodeProduct(r *http.Request) (*ProductRequest, error) {
	var body *ProductRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", errMalformedBody)
	}
	return body, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	return id, nil
}

// parseIDList accepts repeated values and comma separated lists.
// Blank entries are skipped.
func parseIDList(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
