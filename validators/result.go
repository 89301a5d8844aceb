// Package validators checks the shape of request payloads before they reach
// the store. Every validator is pure and reports the first failing rule.
package validators

import (
	"strings"
	"unicode/utf8"
)

type Result struct {
	Valid   bool
	Field   string
	Message string
}

func OK() Result {
	return Result{Valid: true}
}

func Fail(field, message string) Result {
	return Result{Field: field, Message: message}
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
