// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	ifscRegex    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	panRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstRegex     = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	slugStrip    = regexp.MustCompile(`[^a-z0-9]+`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// IsValidIFSC validates an Indian bank IFSC code
func IsValidIFSC(code string) bool {
	return ifscRegex.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// IsValidPAN validates a PAN card number
func IsValidPAN(pan string) bool {
	return panRegex.MatchString(strings.ToUpper(strings.TrimSpace(pan)))
}

// IsValidGST validates a GST identification number
func IsValidGST(gst string) bool {
	return gstRegex.MatchString(strings.ToUpper(strings.TrimSpace(gst)))
}

// IsValidPincode validates a 6-digit postal code
func IsValidPincode(pincode string) bool {
	return pincodeRegex.MatchString(strings.TrimSpace(pincode))
}

// Slugify converts a name to a URL-safe slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
