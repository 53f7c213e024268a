// Package rules holds the pure validation rules shared by messages and
// user registration, plus the message hash digest.
//
// Nothing here touches storage or session state, so every function is
// safe to call from anywhere.
package rules

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// MessageIDLength is the exact length of a message ID.
	MessageIDLength = 10
	// MaxPayloadLength is the maximum number of characters in a message body.
	MaxPayloadLength = 250
	// MaxUsernameLength is the maximum number of characters in a username.
	MaxUsernameLength = 5
	// MinPasswordLength is the minimum number of characters in a password.
	MinPasswordLength = 8
	// PasswordSpecials lists the characters that satisfy the special-character rule.
	PasswordSpecials = "!@#$%^&*()"

	hashFallbackPrefix = "XX"
)

var (
	phonePattern = regexp.MustCompile(`^\+27\d{9}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// ValidMessageID reports whether id is exactly ten ASCII digits.
func ValidMessageID(id string) bool {
	if len(id) != MessageIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// ValidPhoneNumber reports whether number is "+27" followed by nine digits.
func ValidPhoneNumber(number string) bool {
	return phonePattern.MatchString(number)
}

// ComputeHash builds the human-readable message digest.
// Example: ComputeHash("1234567890", 1, "Hello world") → "12:1:HELLOWORLD"
//
// Rules:
//   - Prefix is the first two characters of id ("XX" when id is shorter)
//   - Payload is trimmed and split on whitespace runs
//   - First and last words are joined, or just the first word when both
//     are equal ignoring case (a one-word payload included)
//   - The result is uppercased
//
// The digest is a lookup token, not a security primitive.
func ComputeHash(id string, index int, payload string) string {
	prefix := hashFallbackPrefix
	if len(id) >= 2 {
		prefix = id[:2]
	}

	words := strings.Fields(payload)
	first, last := "", ""
	if len(words) > 0 {
		first = words[0]
		last = words[len(words)-1]
	}

	combined := first + last
	if strings.EqualFold(first, last) {
		combined = first
	}

	return strings.ToUpper(prefix + ":" + strconv.Itoa(index) + ":" + combined)
}

// ValidUsername reports whether name has an underscore and at most five characters.
func ValidUsername(name string) bool {
	return len([]rune(name)) <= MaxUsernameLength && strings.Contains(name, "_")
}

// ValidPassword reports whether password is at least eight characters
// long and contains an uppercase letter, a digit and a special character.
func ValidPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}

	var upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	return upper && digit && special
}

// ValidName reports whether name is non-empty and made only of ASCII letters.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}
