// Package scope implements the layered name-resolution environment
// Expression templates evaluate against: a stack of frames for project,
// flow-defaults, and per-job bindings, searched last-frame-first so a
// narrower frame shadows a wider one.
package scope

import "github.com/flowctl/flowctl/internal/expr"

// Node is either a leaf expr.Value or a nested namespace (another set of
// named nodes, e.g. "env" holding one leaf per environment variable).
type Node interface{}

// Frame is one named layer of bindings, e.g. the "project" or "env"
// top-level names visible within a "${{ ... }}" template.
type Frame map[string]Node

// Scope is an ordered stack of frames. Frames later in the stack shadow
// identically-named top-level bindings in earlier frames; this is how a
// per-job frame overrides flow-defaults, which in turn overrides project.
type Scope struct {
	frames []Frame
}

// New builds a Scope from frames in increasing priority order: frames[len-1]
// is consulted first (and so wins on shadowing) and frames[0] last.
func New(frames ...Frame) *Scope {
	return &Scope{frames: frames}
}

// Child returns a new Scope with an additional frame pushed on top,
// shadowing same-named bindings in the receiver. The receiver is left
// unmodified.
func (s *Scope) Child(frame Frame) *Scope {
	next := make([]Frame, len(s.frames)+1)
	copy(next, s.frames)
	next[len(s.frames)] = frame
	return &Scope{frames: next}
}

// Lookup implements expr.Scope: it resolves a dot-separated identifier
// chain by finding the top-level name in the highest-priority frame that
// defines it, then descending through nested namespaces for the remaining
// chain segments.
func (s *Scope) Lookup(chain []string) (expr.Value, bool) {
	if len(chain) == 0 {
		return expr.Value{}, false
	}

	var cur Node
	found := false
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][chain[0]]; ok {
			cur = v
			found = true
			break
		}
	}
	if !found {
		return expr.Value{}, false
	}

	for _, seg := range chain[1:] {
		ns, ok := cur.(Frame)
		if !ok {
			return expr.Value{}, false
		}
		cur, ok = ns[seg]
		if !ok {
			return expr.Value{}, false
		}
	}

	v, ok := cur.(expr.Value)
	return v, ok
}
