// Package ast defines the immutable tree of flow entities a parsed YAML
// document lowers to: volumes, images, exec units (jobs), flow defaults,
// and the flow itself. Every scalar field that the YAML surface allows to
// be templated is an expr.Expression; the tree is read-only once built.
package ast

import "github.com/flowctl/flowctl/internal/expr"

// Kind distinguishes the two flow dialects this core parses. Only JOB is
// implemented by the parser (spec.md §4.C); BATCH is named by the data
// model for the graph core's shared vocabulary but has no parser entry
// point here.
type Kind int

const (
	KindJob Kind = iota
	KindBatch
)

func (k Kind) String() string {
	if k == KindBatch {
		return "batch"
	}
	return "job"
}

// Volume is a declared local<->remote storage correspondence.
// Invariant: URI.Eval must resolve to a "storage" scheme.
type Volume struct {
	ID         string
	URI        expr.Expression // TURI
	Mount      expr.Expression // TRemotePath
	ReadOnly   expr.Expression // TBool
	LocalPath  expr.Expression // TLocalPath, optional
}

// Image is a declared container image, optionally buildable from a local
// context + dockerfile.
type Image struct {
	ID            string
	Ref           expr.Expression            // TURI
	Context       expr.Expression            // TLocalPath, optional
	Dockerfile    expr.Expression            // TLocalPath, optional
	BuildArgs     map[string]expr.Expression // TString values
	Env           map[string]expr.Expression
	BuildPreset   expr.Expression // TString, optional
	ForceRebuild  expr.Expression // TBool
}

// CanBuild reports whether both a context and a dockerfile were declared,
// the invariant required before any build operation may run.
func (img Image) CanBuild() bool {
	return !img.Context.IsAbsent() && !img.Dockerfile.IsAbsent()
}

// PortForward is a declared local<->remote port pairing for `job.port-forward`.
type PortForward struct {
	LocalPort  expr.Expression // TInt
	RemotePort expr.Expression // TInt
}

// ExecUnit is the field set shared by Job (and, in the batch dialect, a
// Task — not modeled here since this core only parses the interactive
// JOB kind).
type ExecUnit struct {
	ID               string
	Title            expr.Expression // TString, optional
	Name             expr.Expression // TString, optional
	Image            expr.Expression // TURI
	Preset           expr.Expression // TString, optional
	Entrypoint       expr.Expression // TString, optional
	Cmd              expr.Expression // TString
	Workdir          expr.Expression // TRemotePath, optional
	Env              map[string]expr.Expression
	Volumes          []expr.Expression // TString, each passed verbatim as one --volume value
	Tags             []string
	LifeSpan         expr.Expression // TString (lifespan literal), optional
	HTTPPort         expr.Expression // TInt, optional
	HTTPAuth         expr.Expression // TBool, optional
	ScheduleTimeout  expr.Expression // TString (lifespan literal), optional
	PortForward      []PortForward
	PassConfig       expr.Expression // TBool
}

// Job is an ExecUnit plus the interactive-flow-specific fields.
type Job struct {
	ExecUnit
	Detach expr.Expression // TBool
	Browse expr.Expression // TBool
	Multi  bool
}

// FlowDefaults carries the flow-wide defaults block. Tags are merged into
// every job's tag set; Env is evaluated into the template scope's env
// namespace only and is not added to a job's own env; Workdir and LifeSpan
// are parsed but not applied to jobs.
type FlowDefaults struct {
	Tags     []string
	Env      map[string]expr.Expression
	Workdir  expr.Expression // TRemotePath, optional
	LifeSpan expr.Expression // TString, optional
}

// Flow is the fully parsed document: a project, its declared images and
// volumes, flow-wide defaults, and (for KindJob) the jobs map.
type Flow struct {
	ID       string
	Kind     Kind
	Title    string
	Images   map[string]Image
	Volumes  map[string]Volume
	Defaults FlowDefaults

	// JobOrder preserves declaration order from the YAML document; Jobs
	// is keyed by id for O(1) lookup.
	JobOrder []string
	Jobs     map[string]Job
}

// JobByID returns the job named id and whether it was declared.
func (f Flow) JobByID(id string) (Job, bool) {
	j, ok := f.Jobs[id]
	return j, ok
}
