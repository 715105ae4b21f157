// Package email holds helpers for working with party email addresses.
package email

import (
	"strings"
	"unicode"
)

const fallbackName = "User"

// DeriveNameFromEmail guesses a first and last name from an email local part.
// The registration form requires explicit names, but admin-created accounts
// arrive with an address only; the provisioner uses this as a fallback.
func DeriveNameFromEmail(address string) (first, last string) {
	local, _, found := strings.Cut(address, "@")
	if !found || local == "" {
		local = address
	}

	words := strings.FieldsFunc(local, isSeparator)
	switch len(words) {
	case 0:
		return fallbackName, fallbackName
	case 1:
		return title(words[0]), fallbackName
	default:
		return title(words[0]), title(words[len(words)-1])
	}
}

func isSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || r == '+'
}

func title(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
