package valueobject

import (
	dErrors "crivo/pkg/domain-errors"
)

// CNPJ is a Brazilian company registration number, stored as 14 digits.
type CNPJ struct {
	value string
}

var (
	cnpjWeightsFirst  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ParseCNPJ normalizes raw input and validates both mod-11 check digits.
func ParseCNPJ(raw string) (CNPJ, error) {
	cleaned := digitsOnly(raw)
	if !CNPJIsValid(cleaned) {
		return CNPJ{}, dErrors.New(dErrors.CodeInvalidInput, "invalid CNPJ")
	}
	return CNPJ{value: cleaned}, nil
}

// CNPJIsValid reports whether the input (after stripping non-digits) is a
// checksum-valid CNPJ.
func CNPJIsValid(raw string) bool {
	cnpj := digitsOnly(raw)
	if len(cnpj) != 14 {
		return false
	}
	if allSameDigit(cnpj) {
		return false
	}

	sum := 0
	for i, w := range cnpjWeightsFirst {
		sum += int(cnpj[i]-'0') * w
	}
	remainder := sum % 11
	check := 0
	if remainder >= 2 {
		check = 11 - remainder
	}
	if check != int(cnpj[12]-'0') {
		return false
	}

	sum = 0
	for i, w := range cnpjWeightsSecond {
		sum += int(cnpj[i]-'0') * w
	}
	remainder = sum % 11
	check = 0
	if remainder >= 2 {
		check = 11 - remainder
	}
	return check == int(cnpj[13]-'0')
}

// String returns the bare 14-digit value.
func (c CNPJ) String() string { return c.value }

// Formatted returns the value as XX.XXX.XXX/XXXX-XX.
func (c CNPJ) Formatted() string {
	if len(c.value) != 14 {
		return c.value
	}
	return c.value[0:2] + "." + c.value[2:5] + "." + c.value[5:8] + "/" + c.value[8:12] + "-" + c.value[12:14]
}

// IsZero reports whether the CNPJ was never successfully parsed.
func (c CNPJ) IsZero() bool { return c.value == "" }

// Equal compares two CNPJs by normalized value.
func (c CNPJ) Equal(other CNPJ) bool { return c.value == other.value }
