package service

import (
	"errors"
	"fmt"

	"go-pos-ws/internal/repository"
)

// Sale error kinds. Every error returned by ProcessSale is a *SaleError
// whose Kind is one of these.
var (
	// input errors, reported before any storage access
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("invalid price per unit")

	// business rule
	ErrOutOfStock = errors.New("out of stock")

	// infrastructure
	ErrInvalidReference = errors.New("invalid reference")
	ErrPersistence      = errors.New("persistence error")
)

// SaleError describes why a sale was rejected or rolled back.
type SaleError struct {
	Kind        error
	VariationID uint // offending variation, 0 when not line specific
	Line        int  // zero-based cart index for input errors, -1 otherwise
	Err         error
}

func (e *SaleError) Error() string {
	msg := e.Kind.Error()
	if e.VariationID != 0 {
		msg = fmt.Sprintf("%s (variation %d)", msg, e.VariationID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SaleError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps a repository error raised inside the unit of work onto a
// sale error kind.
func classify(err error, variationID uint) *SaleError {
	var saleErr *SaleError
	if errors.As(err, &saleErr) {
		return saleErr
	}

	kind := ErrPersistence
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		kind = ErrOutOfStock
	case errors.Is(err, repository.ErrVariationNotFound),
		errors.Is(err, repository.ErrInvalidReference),
		errors.Is(err, repository.ErrNotFound):
		kind = ErrInvalidReference
	case errors.Is(err, repository.ErrInvalidQuantity):
		kind = ErrInvalidQuantity
	}
	return &SaleError{Kind: kind, VariationID: variationID, Line: -1, Err: err}
}
