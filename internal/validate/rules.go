package validate

import (
	"regexp"
	"strings"
)

var (
	// Ivorian phone numbers: +225 or 225 followed by 10 digits, or a bare
	// 8-10 digit local number. Spaces, dots and dashes are tolerated.
	phoneRe = regexp.MustCompile(`^(\+225\d{10}|225\d{10}|\d{8,10})$`)

	// Minimal local@domain.tld shape
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// NCC contributor account number: 7 digits followed by one uppercase letter
	nccRe = regexp.MustCompile(`^\d{7}[A-Z]$`)
)

// NormalizePhone strips the separators tolerated in phone input
func NormalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", ".", "", "-", "")
	return r.Replace(phone)
}

// ValidPhone reports whether phone is an acceptable Ivorian phone number
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(NormalizePhone(phone))
}

// ValidEmail reports whether email has a basic local@domain.tld shape
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidNcc reports whether ncc matches the contributor account format
func ValidNcc(ncc string) bool {
	return nccRe.MatchString(ncc)
}
