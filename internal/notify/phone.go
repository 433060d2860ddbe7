package notify

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is assumed for bare ten-digit numbers.
const DefaultCountryCode = "+91"

var (
	e164Pattern     = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	tenDigitPattern = regexp.MustCompile(`^\d{10}$`)
)

// NormalizePhone prefixes a bare ten-digit number with DefaultCountryCode.
// Every other input is only trimmed; ValidE164 decides whether it is usable.
func NormalizePhone(value string) string {
	value = strings.TrimSpace(value)
	if tenDigitPattern.MatchString(value) {
		return DefaultCountryCode + value
	}
	return value
}

// ValidE164 reports whether value is an E.164 number.
func ValidE164(value string) bool {
	return e164Pattern.MatchString(value)
}
