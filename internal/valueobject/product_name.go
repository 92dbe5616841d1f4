package valueobject

import (
	"strings"
	"unicode/utf8"

	"aroma-inventory/internal/apperror"
)

const (
	MinProductNameLength = 2
	MaxProductNameLength = 200
)

type ProductName struct {
	value string
}

func NewProductName(raw string) (ProductName, error) {
	value := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(value)
	if n < MinProductNameLength || n > MaxProductNameLength {
		return ProductName{}, apperror.Invalid("product name must be between %d and %d characters", MinProductNameLength, MaxProductNameLength)
	}
	return ProductName{value: value}, nil
}

func (p ProductName) String() string { return p.value }

// Equals compares names ignoring case.
func (p ProductName) Equals(other ProductName) bool {
	return strings.EqualFold(p.value, other.value)
}
