package domain

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// moneyCtx is the shared arithmetic context for monetary values. 34 digits is
// far beyond what cumulative sales totals need, so additions never round.
var moneyCtx = apd.BaseContext.WithPrecision(34)

// Money is an exact decimal monetary amount. Amounts enter the system by
// parsing the literal text of a JSON number; they are never routed through
// float64, which would drift across long aggregation windows.
type Money struct {
	value apd.Decimal
}

// ParseMoney parses a decimal string such as "19.99".
func ParseMoney(s string) (Money, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// MustMoney is a test/fixture helper that panics on malformed input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromInt64 builds a Money from a whole number of currency units.
func MoneyFromInt64(i int64) Money {
	var d apd.Decimal
	d.SetInt64(i)
	return Money{value: d}
}

func (m Money) String() string {
	return m.value.String()
}

func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// Cmp returns -1, 0 or 1 comparing m against other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(&other.value)
}

// GreaterThan reports whether m is strictly greater than other.
// Classifier thresholds are strict, so 200.00 exactly is not "> 200".
func (m Money) GreaterThan(other Money) bool {
	return m.Cmp(other) > 0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	var result apd.Decimal
	moneyCtx.Add(&result, &m.value, &other.value)
	return Money{value: result}
}

// MulInt64 returns m * n, used for line item totals.
func (m Money) MulInt64(n int64) Money {
	var factor, result apd.Decimal
	factor.SetInt64(n)
	moneyCtx.Mul(&result, &m.value, &factor)
	return Money{value: result}
}

// Div returns m / other, used for average order values.
func (m Money) Div(other Money) Money {
	var result apd.Decimal
	moneyCtx.Quo(&result, &m.value, &other.value)
	return Money{value: result}
}

// MarshalJSON emits the amount as a JSON number with its exact decimal text.
func (m Money) MarshalJSON() ([]byte, error) {
	if m.value.Form != apd.Finite {
		return []byte("0"), nil
	}
	return []byte(m.value.Text('f')), nil
}

// UnmarshalJSON accepts either a bare JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
