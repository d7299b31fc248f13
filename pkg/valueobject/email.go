package valueobject

import (
	"regexp"
	"strings"

	dErrors "crivo/pkg/domain-errors"
)

// Email is a normalized (lowercased, trimmed) email address.
type Email struct {
	value string
}

// Structural check; the extra dot rules below catch the RFC corner cases the
// regex alone would admit.
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`,
)

// ParseEmail validates and normalizes an email address. Consecutive dots and
// leading or trailing dots are rejected in addition to the structural check.
func ParseEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !EmailIsValid(normalized) {
		return Email{}, dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	return Email{value: normalized}, nil
}

// EmailIsValid reports whether the address passes structural validation.
func EmailIsValid(email string) bool {
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	if strings.HasPrefix(email, ".") || strings.HasSuffix(email, ".") {
		return false
	}
	return true
}

// String returns the normalized address.
func (e Email) String() string { return e.value }

// Domain returns the part after the @.
func (e Email) Domain() string {
	if at := strings.LastIndexByte(e.value, '@'); at >= 0 {
		return e.value[at+1:]
	}
	return ""
}

// LocalPart returns the part before the @.
func (e Email) LocalPart() string {
	if at := strings.LastIndexByte(e.value, '@'); at >= 0 {
		return e.value[:at]
	}
	return e.value
}

// IsZero reports whether the Email was never successfully parsed.
func (e Email) IsZero() bool { return e.value == "" }

// Equal compares two emails by normalized value.
func (e Email) Equal(other Email) bool { return e.value == other.value }
