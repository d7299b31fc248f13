package valueobject

import (
	dErrors "crivo/pkg/domain-errors"
)

// CEP is a Brazilian postal code stored as 8 digits.
type CEP struct {
	value string
}

// ParseCEP normalizes raw input and enforces the 8-digit format.
func ParseCEP(raw string) (CEP, error) {
	cleaned := digitsOnly(raw)
	if !CEPIsValid(cleaned) {
		return CEP{}, dErrors.New(dErrors.CodeInvalidInput, "invalid CEP")
	}
	return CEP{value: cleaned}, nil
}

// CEPIsValid reports whether the input (after stripping non-digits) is an
// 8-digit postal code.
func CEPIsValid(raw string) bool {
	cep := digitsOnly(raw)
	if len(cep) != 8 {
		return false
	}
	return true
}

// String returns the bare 8-digit value.
func (c CEP) String() string { return c.value }

// Formatted returns the value as XXXXX-XXX.
func (c CEP) Formatted() string {
	if len(c.value) != 8 {
		return c.value
	}
	return c.value[0:5] + "-" + c.value[5:]
}

// IsZero reports whether the CEP was never successfully parsed.
func (c CEP) IsZero() bool { return c.value == "" }

// Equal compares two CEPs by normalized value.
func (c CEP) Equal(other CEP) bool { return c.value == other.value }
