// Package sanitize holds the input policy for a sentence submitted for
// translation. Every entry point calls Text before anything reaches a model.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/kotoba/pkg/domain"
)

// MaxRunes caps a submission. A chat sentence is a few dozen characters; a
// short paragraph still fits.
const MaxRunes = 1000

// Text trims s, drops control characters other than newline and tab, and
// rejects blank, oversized or non-UTF-8 input with a *domain.ValidationError.
func Text(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", &domain.ValidationError{Field: "text", Reason: "must be valid UTF-8"}
	}

	s = strings.Map(dropControl, strings.TrimFunc(s, unicode.IsSpace))
	if s == "" {
		return "", &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if n := utf8.RuneCountInString(s); n > MaxRunes {
		return "", &domain.ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("is %d characters, limit is %d", n, MaxRunes),
		}
	}
	return s, nil
}

// Blank reports whether s is empty or whitespace only (including U+3000).
func Blank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

func dropControl(r rune) rune {
	if r == '\n' || r == '\t' {
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}
