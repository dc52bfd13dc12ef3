package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Username must be alphanumeric with dots, hyphens or underscores, 3-50 chars
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)
)

const maxServerNameLength = 200

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateServerName checks a server column name coming from a request or a
// generator definition. Whether the column exists is decided by the table.
func ValidateServerName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: server name cannot be empty", ErrInvalidInput)
	case len(name) > maxServerNameLength:
		return fmt.Errorf("%w: server name must not exceed %d characters", ErrInvalidInput, maxServerNameLength)
	case strings.ContainsAny(name, ",\"\n\r\t"):
		return fmt.Errorf("%w: server name must not contain commas, quotes or line breaks", ErrInvalidInput)
	}
	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = SanitizeString(username)

	if len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", ErrInvalidInput)
	}

	if len(username) > 50 {
		return fmt.Errorf("%w: username must not exceed 50 characters", ErrInvalidInput)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username must contain only letters, numbers, dots, hyphens and underscores", ErrInvalidInput)
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: password must not exceed 72 bytes", ErrInvalidInput)
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasNumber {
		missing = append(missing, "a number")
	}
	if !hasSpecial {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: password must contain %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	return nil
}
