/*
money.go - Fixed-precision monetary amounts and the reconciliation identity

PURPOSE:
  Represent and validate monetary amounts without binary floating-point
  error, and guard the accounting identity

      totalAmount = spentAmount + availableAmount

  Every engine operation that changes totalAmount or availableAmount calls
  Reconcile before committing; a failure aborts the whole operation and no
  partial state escapes.

PRECISION:
  Money wraps decimal.Decimal. Constructors accept strings ("499.99"),
  integers, and minor units (cents). Float constructors exist only for
  interop at the API boundary.

SEE ALSO:
  - errors.go: ErrInvariantViolation and InvariantViolationError
  - funding.go: The funding ceiling check built on Reconcile
*/
package budget

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-precision monetary amount.
type Money struct {
	Value decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Money { return Money{Value: decimal.Zero} }

// NewMoney creates an amount from a float. Intended for API-boundary interop;
// domain code should prefer NewMoneyFromString or minor units.
func NewMoney(v float64) Money { return Money{Value: decimal.NewFromFloat(v)} }

// NewMoneyFromInt creates an amount from whole currency units.
func NewMoneyFromInt(v int64) Money { return Money{Value: decimal.NewFromInt(v)} }

// NewMoneyFromMinorUnits creates an amount from integer minor units, e.g.
// cents: NewMoneyFromMinorUnits(12345, 2) == 123.45.
func NewMoneyFromMinorUnits(units int64, scale int32) Money {
	return Money{Value: decimal.New(units, -scale)}
}

// NewMoneyFromString parses a decimal string amount.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustMoney parses a decimal string amount, returning zero on failure.
// For literals in tests and fixtures.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money        { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money        { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Neg() Money               { return Money{Value: m.Value.Neg()} }
func (m Money) IsZero() bool             { return m.Value.IsZero() }
func (m Money) IsNegative() bool         { return m.Value.IsNegative() }
func (m Money) IsPositive() bool         { return m.Value.IsPositive() }
func (m Money) IsNonNegative() bool      { return !m.Value.IsNegative() }
func (m Money) Equal(o Money) bool       { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool    { return m.Value.LessThan(o.Value) }

// String renders the amount as a plain decimal string.
func (m Money) String() string { return m.Value.String() }

// Float64 returns a lossy float for API responses.
func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

// Reconcile derives spent from total and available, enforcing the accounting
// identity. It fails with InvariantViolationError if either operand is
// negative or available exceeds total.
func Reconcile(total, available Money) (Money, error) {
	if total.IsNegative() || available.IsNegative() {
		return Money{}, &InvariantViolationError{
			Total:     total,
			Available: available,
			Detail:    "amounts must be non-negative",
		}
	}
	if available.GreaterThan(total) {
		return Money{}, &InvariantViolationError{
			Total:     total,
			Available: available,
			Detail:    "available exceeds total",
		}
	}
	return total.Sub(available), nil
}
