package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Prices must fit NUMERIC(19,4) so every store keeps the same value.
const MaxPriceScale = 4

// MaxPrice is the exclusive upper bound on a product price.
var MaxPrice = decimal.New(1, 15)

// ProductDraft is the caller-supplied payload for create and update.
// A nil Price means the caller did not send one.
type ProductDraft struct {
	ID    int64
	Name  string
	Price *decimal.Decimal
}

// ValidateDraft checks product presence, then name, then price presence,
// then price sign, then price scale and size. The first failing check wins.
func ValidateDraft(draft *ProductDraft) error {
	if draft == nil {
		return ErrMissingProduct
	}
	if strings.TrimSpace(draft.Name) == "" {
		return ErrMissingName
	}
	if draft.Price == nil {
		return ErrMissingPrice
	}
	if draft.Price.IsNegative() {
		return ErrNegativePrice
	}
	if !draft.Price.Equal(draft.Price.Truncate(MaxPriceScale)) {
		return ErrPriceScale
	}
	if draft.Price.GreaterThanOrEqual(MaxPrice) {
		return ErrPriceTooLarge
	}
	return nil
}

// ValidateUpdateDraft runs ValidateDraft and additionally requires an id.
func ValidateUpdateDraft(draft *ProductDraft) error {
	if err := ValidateDraft(draft); err != nil {
		return err
	}
	if draft.ID <= 0 {
		return ErrMissingID
	}
	return nil
}
