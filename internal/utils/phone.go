package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// NormalizePhone trims the number and applies the default country code
// when no leading "+" is present.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}

// IsValidPhone reports whether the normalized number looks like an
// international phone number.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
