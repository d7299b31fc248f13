// Package valueobject holds validated immutable value types for client and
// loan data. Constructors never return partially valid values: a failed parse
// returns a coded error and the zero value, and callers decide whether the
// absence is fatal for their flow.
package valueobject

import (
	"strings"

	dErrors "crivo/pkg/domain-errors"
)

// CPF is a Brazilian individual taxpayer number, stored as 11 digits.
type CPF struct {
	value string
}

// ParseCPF normalizes raw input (punctuation is stripped) and validates the
// mod-11 double check digit. All-same-digit sequences are rejected regardless
// of checksum.
func ParseCPF(raw string) (CPF, error) {
	cleaned := digitsOnly(raw)
	if !CPFIsValid(cleaned) {
		return CPF{}, dErrors.New(dErrors.CodeInvalidInput, "invalid CPF")
	}
	return CPF{value: cleaned}, nil
}

// CPFIsValid reports whether the input (after stripping non-digits) is a
// checksum-valid CPF.
func CPFIsValid(raw string) bool {
	cpf := digitsOnly(raw)
	if len(cpf) != 11 {
		return false
	}
	if allSameDigit(cpf) {
		return false
	}

	// First check digit: weights 10 down to 2 over the first 9 digits.
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(cpf[i]-'0') * (10 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		remainder = 0
	}
	if remainder != int(cpf[9]-'0') {
		return false
	}

	// Second check digit: weights 11 down to 2 over the first 10 digits.
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(cpf[i]-'0') * (11 - i)
	}
	remainder = (sum * 10) % 11
	if remainder == 10 {
		remainder = 0
	}
	return remainder == int(cpf[10]-'0')
}

// String returns the bare 11-digit value.
func (c CPF) String() string { return c.value }

// Formatted returns the value as XXX.XXX.XXX-XX.
func (c CPF) Formatted() string {
	if len(c.value) != 11 {
		return c.value
	}
	return c.value[0:3] + "." + c.value[3:6] + "." + c.value[6:9] + "-" + c.value[9:11]
}

// IsZero reports whether the CPF was never successfully parsed.
func (c CPF) IsZero() bool { return c.value == "" }

// Equal compares two CPFs by normalized value.
func (c CPF) Equal(other CPF) bool { return c.value == other.value }

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}
