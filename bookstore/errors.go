package bookstore

import (
	"errors"
	"fmt"
)

// Sentinel errors classify everything the engine can report. Callers branch
// with errors.Is; the wrapped messages are printed to the user verbatim.
var (
	// ErrInvalidInput covers malformed dates, non-positive quantities and
	// negative discounts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned for unknown member, book or sale identifiers.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a sale would drive stock negative.
	ErrConflict = errors.New("conflict")
)

// StockError reports an attempted oversell along with the stock on hand.
type StockError struct {
	BookID    string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s: requested %d, current stock is %d",
		e.BookID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrConflict }
