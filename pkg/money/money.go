// Package money provides a value object for monetary amounts.
//
// Invariants:
//   - Amount is a fixed-point decimal; no float arithmetic touches balances.
//   - Currency code must be a valid ISO 4217 code.
//   - All arithmetic operations require matching currencies.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCurrency is returned when an invalid currency code is provided.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMismatchedCurrencies is returned when performing operations
	// on money with different currencies.
	ErrMismatchedCurrencies = errors.New("mismatched currencies")

	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Money represents a fixed-point monetary amount in a specific currency.
// The zero value is "0" in the zero currency and should only appear as a
// placeholder; use New or Zero for real values.
type Money struct {
	amount   decimal.Decimal
	currency Code
}

// New creates a Money from a decimal string such as "100.50".
func New(amount string, currency Code) (Money, error) {
	if !currency.IsValid() {
		return Money{}, ErrInvalidCurrency
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return Money{amount: d, currency: currency}, nil
}

// NewFromDecimal creates a Money from an existing decimal value.
func NewFromDecimal(amount decimal.Decimal, currency Code) (Money, error) {
	if !currency.IsValid() {
		return Money{}, ErrInvalidCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency Code) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() Code {
	return m.currency
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsSameCurrency reports whether other is denominated in the same currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// Equals reports whether both amount and currency match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// GreaterThanOrEqual reports whether m >= other.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrMismatchedCurrencies
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrMismatchedCurrencies
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrMismatchedCurrencies
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// String formats the amount with its currency code, e.g. "100.5 INR".
func (m Money) String() string {
	return m.amount.String() + " " + string(m.currency)
}
