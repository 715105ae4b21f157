package testutil

import "testing"

// Given, When, and Then wrap subtests with a narrative prefix so workflow
// tests read as scenarios in verbose output.

func Given(t *testing.T, description string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Given", description, fn)
}

func When(t *testing.T, description string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "When", description, fn)
}

func Then(t *testing.T, description string, fn func(t *testing.T)) {
	t.Helper()
	step(t, "Then", description, fn)
}

func step(t *testing.T, prefix, description string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(prefix+" "+description, fn)
}
