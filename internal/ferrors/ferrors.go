// Package ferrors defines the typed error kinds raised across flowctl's
// parsing, evaluation, graph-validation, and job-control layers.
//
// Every kind carries the identifiers named in the diagnostic so callers can
// branch with errors.As instead of matching on message text.
package ferrors

import "fmt"

// SchemaError reports a YAML document that failed schema validation:
// a missing required key, an unknown key, or a malformed scalar.
type SchemaError struct {
	Path   string // dotted path to the offending key, e.g. "jobs.train.image"
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %q: %s", e.Path, e.Reason)
}

// UnknownEntity reports a reference to a job/volume/image id that was never
// declared in the flow.
type UnknownEntity struct {
	Kind string // "job", "volume", or "image"
	ID   string
}

func (e *UnknownEntity) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

// UnresolvedExpression reports a template expression that referenced an
// unknown name, or whose resolved value could not be coerced to the
// expression's declared type.
type UnresolvedExpression struct {
	Source string // the original "${{ ... }}" source
	Name   string // the unresolved identifier, if applicable
	Reason string
}

func (e *UnresolvedExpression) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unresolved expression %q: unknown name %q", e.Source, e.Name)
	}
	return fmt.Sprintf("unresolved expression %q: %s", e.Source, e.Reason)
}

// NotFound reports the absence of a remote job instance. It is recovered
// locally by kill/kill-all (treated as a no-op) and surfaced as "not
// running" by logs; status does not return it and prints nothing when no
// instance is found.
type NotFound struct {
	Job    string
	Suffix string
}

func (e *NotFound) Error() string {
	if e.Suffix != "" {
		return fmt.Sprintf("job %q (suffix %q) not found", e.Job, e.Suffix)
	}
	return fmt.Sprintf("job %q not found", e.Job)
}

// ArgumentMisuse reports a request whose shape is illegal given the job's
// multi/suffix state: args passed to a non-multi job, a multi job
// referenced without a suffix, or args passed to an already-running
// multi-job suffix.
type ArgumentMisuse struct {
	Reason string
}

func (e *ArgumentMisuse) Error() string {
	return fmt.Sprintf("argument misuse: %s", e.Reason)
}

// CycleError reports a directed cycle discovered by check_no_cycles, naming
// one participant node on the cycle.
type CycleError struct {
	Path []string // nested scope path the cycle was found in
	Node string   // a node on the cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected at %v, involving %q", e.Path, e.Node)
}

// LocalDepError reports a local action depending, transitively, on a
// remote task.
type LocalDepError struct {
	LocalAction string
	RemoteTask  string
}

func (e *LocalDepError) Error() string {
	return fmt.Sprintf("Local action %q depends on remote task %q", e.LocalAction, e.RemoteTask)
}

// DuplicateImageRef reports two image entries resolving to the same
// registry ref URI.
type DuplicateImageRef struct {
	Ref string
}

func (e *DuplicateImageRef) Error() string {
	return fmt.Sprintf("Image ref %q is duplicated", e.Ref)
}

// Authorization and AlreadyExists are swallowed by project-role creation:
// both mean the role already exists in a usable state for the caller.
type Authorization struct{ Reason string }

func (e *Authorization) Error() string { return fmt.Sprintf("authorization error: %s", e.Reason) }

type AlreadyExists struct{ Resource string }

func (e *AlreadyExists) Error() string { return fmt.Sprintf("%s already exists", e.Resource) }
