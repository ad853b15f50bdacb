package inventory

import (
	"errors"
	"fmt"

	"github.com/storefront/inventory-api/models"
)

// ErrorKind classifies domain errors for callers that translate them, such as
// the HTTP layer.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
)

var (
	ErrNameTooShort      = errors.New("category name must have at least 3 characters")
	ErrDuplicateName     = models.ErrDuplicateCategoryName
	ErrCategoryNotFound  = models.ErrCategoryNotFound
	ErrProductNotFound   = models.ErrProductNotFound
	ErrNameRequired      = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrPricePrecision    = errors.New("price must have at most 2 decimal places")
	ErrPriceTooLarge     = errors.New("price must be less than 100000000")
	ErrInvalidQuantity   = errors.New("quantity must be zero or greater")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidCategory   = errors.New("category does not exist or is inactive")
	ErrInactiveProduct   = errors.New("product is inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockOverflow     = errors.New("restock would exceed the maximum stock")
	ErrInvalidFilter     = errors.New("stock_min and price_max must not be negative")
	ErrInvalidPage       = errors.New("offset must not be negative")
)

// Error wraps a sentinel error with the operation that raised it.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Message is the client-facing description of the error.
func (e *Error) Message() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

func validation(op string, err error) error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

func notFound(op string, err error) error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

func conflict(op string, err error) error {
	return &Error{Op: op, Kind: KindConflict, Err: err}
}
