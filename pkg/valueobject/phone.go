package valueobject

import (
	"regexp"

	dErrors "crivo/pkg/domain-errors"
)

// Phone is a Brazilian phone number stored as bare digits: 11 digits for
// mobile (area code + leading 9), 10 for landline.
type Phone struct {
	value string
}

var (
	mobilePattern   = regexp.MustCompile(`^[1-9]{2}9[0-9]{8}$`)
	landlinePattern = regexp.MustCompile(`^[1-9]{2}[2-9][0-9]{7}$`)
)

// ParsePhone normalizes raw input and enforces the national length classes.
func ParsePhone(raw string) (Phone, error) {
	cleaned := digitsOnly(raw)
	if !PhoneIsValid(cleaned) {
		return Phone{}, dErrors.New(dErrors.CodeInvalidInput, "invalid phone number")
	}
	return Phone{value: cleaned}, nil
}

// PhoneIsValid reports whether the input (after stripping non-digits) is a
// valid mobile or landline number.
func PhoneIsValid(raw string) bool {
	phone := digitsOnly(raw)
	switch len(phone) {
	case 11:
		return mobilePattern.MatchString(phone)
	case 10:
		return landlinePattern.MatchString(phone)
	default:
		return false
	}
}

// String returns the bare digit value.
func (p Phone) String() string { return p.value }

// Formatted returns "(XX) 9XXXX-XXXX" for mobiles or "(XX) XXXX-XXXX" for
// landlines.
func (p Phone) Formatted() string {
	switch len(p.value) {
	case 11:
		return "(" + p.value[0:2] + ") " + p.value[2:7] + "-" + p.value[7:]
	case 10:
		return "(" + p.value[0:2] + ") " + p.value[2:6] + "-" + p.value[6:]
	default:
		return p.value
	}
}

// IsMobile reports whether the number is in the mobile length class.
func (p Phone) IsMobile() bool { return len(p.value) == 11 }

// IsZero reports whether the Phone was never successfully parsed.
func (p Phone) IsZero() bool { return p.value == "" }

// Equal compares two phones by normalized value.
func (p Phone) Equal(other Phone) bool { return p.value == other.value }
