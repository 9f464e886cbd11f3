package utils

import "strings"

// Stored SKU names mix Thai and Latin text with inconsistent spacing. Stored
// values and incoming search input must pass through the same character filters
// so substring search stays well-defined across both scripts.

// Thai script Unicode block.
const (
	thaiBlockStart = '฀'
	thaiBlockEnd   = '๿'
)

// preservedPunct is the fixed punctuation set kept by CleanText.
var preservedPunct = map[rune]bool{
	'@': true, '#': true, '$': true, '%': true, '&': true, '*': true,
	'+': true, '-': true, '=': true, '_': true, '.': true, ',': true,
	':': true, ';': true, '!': true, '?': true, '(': true, ')': true,
	'[': true, ']': true, '{': true, '}': true, '|': true, '\\': true,
	'/': true, '<': true, '>': true,
}

func isThai(r rune) bool {
	return r >= thaiBlockStart && r <= thaiBlockEnd
}

func isLatinLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// CleanText filters a display name down to Latin letters, digits, Thai
// characters, spaces, and a fixed punctuation set. Blank input yields "".
func CleanText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range input {
		if isLatinLetter(r) || isDigit(r) || isThai(r) || r == ' ' || preservedPunct[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanLettersOnly keeps Thai and Latin letters and drops everything else.
func CleanLettersOnly(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range input {
		if isLatinLetter(r) || isThai(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanSearchTerm keeps Latin letters, digits, and Thai characters in their
// original order and removes all whitespace and other characters, so the result
// can be matched against a space-stripped stored name.
func CleanSearchTerm(searchTerm string) string {
	trimmed := strings.TrimSpace(searchTerm)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range trimmed {
		if isLatinLetter(r) || isDigit(r) || isThai(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SearchWords splits a raw search term on whitespace and normalizes each word
// with CleanSearchTerm, dropping words that normalize to empty. Each returned
// word contributes one independent "name contains word" predicate; the
// predicates are ANDed by the repository.
func SearchWords(searchTerm string) []string {
	var words []string
	for _, w := range strings.Fields(searchTerm) {
		if cleaned := CleanSearchTerm(w); cleaned != "" {
			words = append(words, cleaned)
		}
	}
	return words
}
