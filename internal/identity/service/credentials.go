package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Account identifiers and one-time passwords follow the legacy recipe: the
// party's initials plus a fragment of a random UUID. The id is opaque to
// clients; uniqueness is enforced by the store, and the provisioner
// regenerates on collision.

func newAccountID(firstName, lastName string) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")
	return initial(firstName) + initial(lastName) + fragment[:6]
}

func newOneTimePassword(firstName, lastName string) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fragment[:8] + strings.ToLower(initial(firstName)+initial(lastName))
}

func initial(name string) string {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "X"
}
