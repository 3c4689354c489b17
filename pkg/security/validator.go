package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

var (
	errQueryTooLong     = errors.New("search query too long")
	errQueryInvalidChar = errors.New("search query contains invalid characters")
)

// markupPatterns reject queries that would be echoed back into an HTML table as active content.
var markupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
	regexp.MustCompile(`(?i)<\s*/?\s*[a-z]+[^>]*>`),
}

// ValidateSearchQuery trims query and checks that it is short and made of
// characters that can appear in a user record.
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}

	if len(query) > MaxSearchQueryLength {
		return "", errQueryTooLong
	}

	query = strings.TrimSpace(query)

	for _, pattern := range markupPatterns {
		if pattern.MatchString(query) {
			return "", errQueryInvalidChar
		}
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", errQueryInvalidChar
		}
	}

	return query, nil
}

// isValidSearchChar allows letters, digits, spaces and the punctuation found
// in names, emails, phone numbers and street addresses.
func isValidSearchChar(char rune) bool {
	if unicode.IsLetter(char) || unicode.IsNumber(char) || unicode.IsMark(char) {
		return true
	}
	switch char {
	case ' ', '-', '_', '.', '@', '+', '#', ',', '\'', '/', '(', ')':
		return true
	}
	return false
}

// MatchesQuery reports whether any of fields contains query, ignoring case.
// An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
