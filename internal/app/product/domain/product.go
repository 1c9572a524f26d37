package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as persisted by the store.
// The id and all timestamps are assigned by the store; callers never set them.
type Product struct {
	id        int64
	name      string
	price     decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
	usedAt    *time.Time
}

// NewProduct builds an unsaved product from a validated draft.
func NewProduct(draft *ProductDraft) (*Product, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}
	return &Product{
		id:    draft.ID,
		name:  draft.Name,
		price: *draft.Price,
	}, nil
}

// ReconstructProduct reconstitutes a Product from a stored row.
func ReconstructProduct(
	id int64,
	name string,
	price decimal.Decimal,
	createdAt, updatedAt time.Time,
	usedAt *time.Time,
) *Product {
	return &Product{
		id:        id,
		name:      name,
		price:     price,
		createdAt: createdAt,
		updatedAt: updatedAt,
		usedAt:    usedAt,
	}
}

// Getters
func (p *Product) ID() int64              { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }

// UsedAt returns when the product was last read by id, or nil if never.
func (p *Product) UsedAt() *time.Time {
	if p.usedAt == nil {
		return nil
	}
	t := *p.usedAt
	return &t
}

// Copy returns a deep copy of the product.
func (p *Product) Copy() *Product {
	cp := *p
	cp.usedAt = p.UsedAt()
	return &cp
}
