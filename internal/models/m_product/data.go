package m_product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/productcat/internal/app/product/domain"
)

// Data represents the database model for the products table.
// The db tags drive pgx.RowToStructByName.
type Data struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
	UsedAt    *time.Time      `db:"used_at"`
}

// ToDomain converts a stored row to a domain Product.
func (d *Data) ToDomain() *domain.Product {
	var usedAt *time.Time
	if d.UsedAt != nil {
		t := *d.UsedAt
		usedAt = &t
	}
	return domain.ReconstructProduct(d.ID, d.Name, d.Price, d.CreatedAt, d.UpdatedAt, usedAt)
}

// Clone returns a deep copy of the row.
func (d *Data) Clone() *Data {
	cp := *d
	if d.UsedAt != nil {
		t := *d.UsedAt
		cp.UsedAt = &t
	}
	return &cp
}
