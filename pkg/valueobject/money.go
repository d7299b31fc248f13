package valueobject

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	dErrors "crivo/pkg/domain-errors"
)

// Money is an immutable BRL amount held as integer cents. Every operation
// rounds to the nearest cent so chained arithmetic never accumulates
// floating-point drift. Zero and negative amounts are representable; business
// validators decide whether a negative amount is acceptable in context.
type Money struct {
	cents int64
}

// FromCents builds a Money from an exact cent amount.
func FromCents(cents int64) Money { return Money{cents: cents} }

// FromReais builds a Money from a real-denominated amount, rounding to the
// nearest cent.
func FromReais(reais float64) Money {
	return Money{cents: int64(math.Round(reais * 100))}
}

// Zero is the zero amount.
func Zero() Money { return Money{} }

// ParseMoney parses textual amounts in both Brazilian ("1.234,56", optionally
// prefixed with R$) and plain dot-decimal ("1234.56") forms. Malformed or
// negative input yields an invalid-input error.
func ParseMoney(raw string) (Money, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return Money{}, dErrors.New(dErrors.CodeInvalidInput, "empty monetary value")
	}

	var normalized string
	switch {
	case strings.Contains(cleaned, ".") && strings.Contains(cleaned, ","):
		// 1.234,56: dots are thousand separators, comma is the decimal mark.
		normalized = strings.ReplaceAll(cleaned, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	case strings.Contains(cleaned, ","):
		normalized = strings.Replace(cleaned, ",", ".", 1)
	default:
		normalized = cleaned
	}

	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Money{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed monetary value")
	}
	if parsed < 0 {
		return Money{}, dErrors.New(dErrors.CodeInvalidInput, "negative monetary value")
	}
	return FromReais(parsed), nil
}

// Cents returns the exact cent amount.
func (m Money) Cents() int64 { return m.cents }

// Reais returns the amount in reais as a float. Use for ratios and display
// only, never for further monetary arithmetic.
func (m Money) Reais() float64 { return float64(m.cents) / 100 }

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{cents: m.cents + other.cents} }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return Money{cents: m.cents - other.cents} }

// Mul scales the amount by a factor, rounding to the nearest cent.
func (m Money) Mul(factor float64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) * factor))}
}

// Div splits the amount by a non-zero divisor, rounding to the nearest cent.
func (m Money) Div(divisor int64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) / float64(divisor)))}
}

// Percentage returns percent% of the amount, rounded to the nearest cent.
func (m Money) Percentage(percent float64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) * percent / 100))}
}

// IsPositive reports m > 0.
func (m Money) IsPositive() bool { return m.cents > 0 }

// IsNegative reports m < 0.
func (m Money) IsNegative() bool { return m.cents < 0 }

// IsZero reports m == 0.
func (m Money) IsZero() bool { return m.cents == 0 }

// Equal reports exact cent equality.
func (m Money) Equal(other Money) bool { return m.cents == other.cents }

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool { return m.cents > other.cents }

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool { return m.cents < other.cents }

// MarshalJSON encodes the amount as its integer cent value. Serialized money
// is always exact; display formatting happens at the edges.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.cents, 10)), nil
}

// UnmarshalJSON decodes an integer cent value.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "monetary value must be integer cents")
	}
	m.cents = cents
	return nil
}

// String formats the amount in Brazilian currency notation, e.g. "R$ 1.234,56".
func (m Money) String() string {
	cents := m.cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%sR$ %s,%02d", sign, strings.Join(groups, "."), frac)
}
