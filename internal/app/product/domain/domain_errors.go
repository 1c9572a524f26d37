package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// ErrInvalidInput covers every client-caused failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidProduct is returned when a product payload fails validation.
	ErrInvalidProduct = fmt.Errorf("%w: invalid product", ErrInvalidInput)

	// Validation errors, in the order they are checked
	ErrMissingProduct = invalidProduct("product information is required")
	ErrMissingName    = invalidProduct("product name is required")
	ErrMissingPrice   = invalidProduct("product price is required")
	ErrNegativePrice  = invalidProduct("product price cannot be negative")
	ErrPriceScale     = invalidProduct("product price must have at most 4 decimal places")
	ErrPriceTooLarge  = invalidProduct("product price must be less than 1000000000000000")
	ErrMissingID      = invalidProduct("product id is required")

	// Existence check errors
	ErrEmptyQuery = &messageError{
		msg:    "product id list for existence check is empty",
		parent: ErrInvalidInput,
	}

	// Lookup errors
	ErrProductNotFound = errors.New("product not found")
)

// messageError carries a user-facing message while still matching its parent
// sentinel with errors.Is.
type messageError struct {
	msg    string
	parent error
}

func invalidProduct(msg string) error {
	return &messageError{msg: msg, parent: ErrInvalidProduct}
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.parent }

// NotFoundError reports a missing product row.
type NotFoundError struct {
	ID int64
}

// NewNotFoundError returns an error matching ErrProductNotFound for the given id.
func NewNotFoundError(id int64) error {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
