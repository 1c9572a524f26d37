package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	// SequenceName backs id generation on Spanner.
	SequenceName = "products_seq"

	ID        = "id"
	Name      = "name"
	Price     = "price"
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
	UsedAt    = "used_at"
)

// Columns lists every column in row order.
var Columns = []string{
	ID,
	Name,
	Price,
	CreatedAt,
	UpdatedAt,
	UsedAt,
}
