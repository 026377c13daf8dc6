// internal/domain/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable category of a rejected ledger operation.
type Kind string

const (
	KindInvalidReference  Kind = "invalid_reference"
	KindProductNotFound   Kind = "product_not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindItemNotFound      Kind = "item_not_found"
	KindDuplicateEntry    Kind = "duplicate_entry"
	KindInvalidQuantity   Kind = "invalid_quantity"
	KindInternal          Kind = "internal"
)

var (
	// ErrInvalidReference means the reference is neither a catalog id nor carries a usable descriptor.
	ErrInvalidReference = errors.New("invalid product reference")
	// ErrProductNotFound means a canonical id has no active catalog entry.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock means the requested increment exceeds remaining stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrItemNotFound means the mutation targets an entry the ledger does not hold.
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateEntry means the product is already in the wishlist.
	ErrDuplicateEntry = errors.New("item already exists in wishlist")
	// ErrInvalidQuantity means a negative or otherwise unusable quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// StockError reports how much of a product can still be added.
type StockError struct {
	ProductRef string
	Available  int
	Held       int
}

// Remaining is the quantity that could still be added on top of Held.
func (e *StockError) Remaining() int {
	if r := e.Available - e.Held; r > 0 {
		return r
	}
	return 0
}

func (e *StockError) Error() string {
	if e.Held > 0 {
		return fmt.Sprintf("only %d more available", e.Remaining())
	}
	return fmt.Sprintf("only %d available", e.Remaining())
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// KindOf maps an error returned by this package to its Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrProductNotFound):
		return KindProductNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrItemNotFound):
		return KindItemNotFound
	case errors.Is(err, ErrDuplicateEntry):
		return KindDuplicateEntry
	case errors.Is(err, ErrInvalidQuantity):
		return KindInvalidQuantity
	default:
		return KindInternal
	}
}
