package valueobject

import (
	"strings"

	"aroma-inventory/internal/apperror"

	"github.com/shopspring/decimal"
)

// Money is a non-negative amount in a 3-letter currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, apperror.Invalid("amount cannot be negative")
	}
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

// MoneyFromFloat is a convenience for request payloads that carry float prices.
func MoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// RestoreMoney rebuilds a Money from persisted columns that were validated on write.
func RestoreMoney(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

func normalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", apperror.Invalid("currency must be a 3-letter code")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", apperror.Invalid("currency must be a 3-letter code")
		}
	}
	return code, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, apperror.Invalid("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, apperror.Invalid("cannot subtract %s from %s", other.currency, m.currency)
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, apperror.Invalid("subtraction would result in a negative amount")
	}
	return Money{amount: result, currency: m.currency}, nil
}

// Multiply scales the amount by a non-negative quantity.
func (m Money) Multiply(qty int) (Money, error) {
	if qty < 0 {
		return Money{}, apperror.Invalid("multiplier cannot be negative")
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty))), currency: m.currency}, nil
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}
