package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTag    = regexp.MustCompile(`<[^>]*>`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	nameChars  = regexp.MustCompile(`[0-9!@#$%^&*(),.?":{}|<>]`)
	pincode    = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// SanitizeString escapes HTML and strips tags
func SanitizeString(input string) string {
	return htmlTag.ReplaceAllString(html.EscapeString(strings.TrimSpace(input)), "")
}

// ValidateEmail checks if the email is well formed
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks the password policy
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return false, fmt.Sprintf("Password must not exceed %d characters", MaxPasswordLength)
	}
	if !hasLower.MatchString(password) || !hasUpper.MatchString(password) || !hasNumber.MatchString(password) {
		return false, "Password must contain an uppercase letter, a lowercase letter and a number"
	}
	return true, ""
}

// FormatPhoneNumber normalizes an Indian mobile number to 10 digits
func FormatPhoneNumber(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}

	if len(phone) != 10 {
		return "", fmt.Errorf("phone number must be exactly 10 digits")
	}
	if phone[0] < '6' || phone[0] > '9' {
		return "", fmt.Errorf("phone number must start with 6, 7, 8, or 9")
	}
	return phone, nil
}

// ValidateName checks a person's name
func ValidateName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if len(name) < MinNameLength {
		return false, fmt.Sprintf("Name must be at least %d characters long", MinNameLength)
	}
	if len(name) > MaxNameLength {
		return false, fmt.Sprintf("Name must not exceed %d characters", MaxNameLength)
	}
	if nameChars.MatchString(name) {
		return false, "Name cannot contain numbers or special characters"
	}
	return true, ""
}

// ValidatePincode checks a six digit Indian postal code
func ValidatePincode(code string) bool {
	return pincode.MatchString(code)
}

// ValidatePrice validates a price
func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	return nil
}
