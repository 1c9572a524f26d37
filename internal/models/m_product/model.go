package m_product

import (
	"fmt"
	"math/big"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
)

// Model provides a facade for type-safe Spanner operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation inserting a row with an explicit id.
// Regular inserts go through DML so the sequence assigns the id; this is for seeding.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	usedAt := spanner.NullTime{}
	if data.UsedAt != nil {
		usedAt = spanner.NullTime{Time: *data.UsedAt, Valid: true}
	}
	return spanner.Insert(
		TableName,
		Columns,
		[]interface{}{
			data.ID,
			data.Name,
			PriceToNumeric(data.Price),
			data.CreatedAt,
			data.UpdatedAt,
			usedAt,
		},
	)
}

// DeleteAllMut creates a mutation removing every row (test cleanup).
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}

// FromSpannerRow decodes a row read with Columns.
func (m *Model) FromSpannerRow(row *spanner.Row) (*Data, error) {
	var (
		data   Data
		price  big.Rat
		usedAt spanner.NullTime
	)
	if err := row.Columns(&data.ID, &data.Name, &price, &data.CreatedAt, &data.UpdatedAt, &usedAt); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	d, err := NumericToPrice(&price)
	if err != nil {
		return nil, err
	}
	data.Price = d

	if usedAt.Valid {
		t := usedAt.Time
		data.UsedAt = &t
	}
	return &data, nil
}

// PriceToNumeric converts a decimal price to a Spanner NUMERIC value.
func PriceToNumeric(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

// NumericToPrice converts a Spanner NUMERIC value to a decimal price.
// Spanner NUMERIC carries at most 9 fractional digits.
func NumericToPrice(r *big.Rat) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(r.FloatString(9))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %s: %w", r.String(), err)
	}
	return d, nil
}
