package bookstore

import (
	"fmt"
	"strings"
)

// ValidateDate checks the YYYY-MM-DD shape only: ten characters with exactly
// two hyphen separators. Calendar validity is not checked.
func ValidateDate(date string) error {
	if len(date) != 10 || strings.Count(date, "-") != 2 {
		return fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}
	return nil
}

// ValidateQuantity requires a positive quantity.
func ValidateQuantity(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidInput)
	}
	return nil
}

// ValidateDiscount requires a non-negative discount.
func ValidateDiscount(discount int64) error {
	if discount < 0 {
		return fmt.Errorf("%w: discount must not be negative", ErrInvalidInput)
	}
	return nil
}

// SaleTotal computes a sale total: price times quantity minus the discount,
// floored at zero. Seed data and the live engine both go through here.
func SaleTotal(price, qty, discount int64) int64 {
	total := price*qty - discount
	if total < 0 {
		return 0
	}
	return total
}
