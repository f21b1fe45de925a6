package utils

import (
	"unicode"
)

// IsWordRune reports whether r may appear inside a word token.
// Apostrophes are kept so contractions stay whole ("don't").
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\''
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains anything other than
// letters and in-word apostrophes.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !IsWordRune(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if a token is a well-formed word.
// Returns false for strings that are only numbers, contain special characters, or are repetitive
func IsValidInput(s string) bool {
	if len(s) == 0 {
		return false
	}

	if IsOnlyNumbers(s) {
		return false
	}

	if ContainsSpecialChars(s) {
		return false
	}

	// "aaa", "zzzz"
	if IsRepetitive(s) {
		return false
	}

	return true
}

// IsRepetitive checks if a string consists of repetitive characters
// Simple version that checks for repeated characters (e.g., "aaa", "bbb")
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}

	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
