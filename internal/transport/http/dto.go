package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// ProductRequest is the body of POST and PATCH /api/v1/product.
// Price accepts a JSON number or a numeric string; null or absent means missing.
type ProductRequest struct {
	ID    *int64           `json:"id,omitempty"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// ProductResponse is a product as returned by the API.
type ProductResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	UsedAt    *time.Time  `json:"usedAt"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     json.Number(p.Price().String()),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
		UsedAt:    p.UsedAt(),
	}
}
