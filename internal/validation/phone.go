package validation

import (
	"errors"
	"strings"
)

// ValidatePhone validates a login phone handle.
func ValidatePhone(phone string) error {
	trimmed := strings.TrimSpace(phone)

	if trimmed == "" {
		return errors.New("phone is required")
	}

	if len(trimmed) > 20 {
		return errors.New("phone is too long (max 20 characters)")
	}

	return nil
}

// PhoneAlternate returns the equivalent form of a phone number under the
// login normalization rule: a leading "8" on a number of at least 11 digits
// is interchangeable with "+7". Numbers outside the rule return unchanged.
func PhoneAlternate(phone string) string {
	if strings.HasPrefix(phone, "8") && len(phone) >= 11 {
		return "+7" + phone[1:]
	}
	return phone
}
