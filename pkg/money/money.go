// Package money provides currency-safe amounts in integer cents for the two
// currencies that appear on Argentine card statements, ARS and USD. It wraps
// go-money for arithmetic and shopspring/decimal for exact conversion from
// parsed statement values.
package money

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Statement currency codes (ISO-4217).
const (
	ARS = "ARS" // Argentine Peso
	USD = "USD" // US Dollar
)

// Money represents a monetary value with currency, stored in minor units.
type Money struct {
	m *money.Money
}

// New creates a Money value from cents (minor units) and currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal value, rounding to cents.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(ARS)
	}
	cents := amount.Mul(decimal.New(1, int32(currency.Fraction))).Round(0).IntPart()
	return New(cents, currencyCode)
}

// Zero returns a zero Money value for the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units (cents).
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsPositive returns true if the amount is greater than zero.
func (m *Money) IsPositive() bool {
	return m != nil && m.m != nil && m.m.IsPositive()
}

// Multiply returns the value multiplied by a whole factor. Installment
// schedules use this to recover a purchase total from one installment.
func (m *Money) Multiply(factor int64) *Money {
	if m == nil || m.m == nil {
		return Zero(ARS)
	}
	return &Money{m: m.m.Multiply(factor)}
}

// Decimal returns the value in major units as an exact decimal.
func (m *Money) Decimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// Display formats the value with its currency symbol.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// String implements fmt.Stringer (e.g. "1443685.70 ARS").
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0"
	}
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency())
}
