package graph

import "strings"

// Path identifies a scope: the sequence of action-call ids followed from
// the flow root down to (but not including) the scope itself. The root
// scope's Path is empty.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Extend returns a new path with id appended, leaving p untouched.
func (p Path) Extend(id string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = id
	return out
}
