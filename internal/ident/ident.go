// Package ident validates the identifier grammar used as a key for
// volumes, images, jobs, and actions: a non-empty string matching common
// programming-language identifier rules (ported from Python's
// str.isidentifier(), which rejects hyphens).
package ident

import "regexp"

var pattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Valid reports whether s is a well-formed identifier.
func Valid(s string) bool {
	return s != "" && pattern.MatchString(s)
}
