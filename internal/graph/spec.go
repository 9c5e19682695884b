// Package graph builds and validates the nested dependency graphs the
// batch dialect's actions form: flow -> action invocation -> subtasks.
// Nothing here depends on flowyaml/ast — this core only parses the
// interactive JOB kind (spec.md §4.C), so the graph's input is the
// abstract ActionSpec/TaskSpec shape spec.md §3 describes directly,
// independent of a concrete batch-YAML decoder.
package graph

// Kind distinguishes where an action's tasks execute: on the invoking
// machine (Local) or on the remote cluster (Remote). check_local_deps
// forbids a Local action from depending, transitively, on a Remote task.
type Kind int

const (
	Local Kind = iota
	Remote
)

func (k Kind) String() string {
	if k == Remote {
		return "remote"
	}
	return "local"
}

// TaskSpec is one task declaration prior to strategy-matrix expansion.
// A task with a non-empty MatrixCells expands, at graph-build time, into
// one node per cell (ID + "-" + cell), each carrying the same Needs.
type TaskSpec struct {
	ID          string
	Needs       []string
	MatrixCells []string
}

// ActionCall is a node, within a scope, that invokes a nested action. Its
// ID is the call-site's node identifier in the parent scope; Action is the
// nested action's own task graph, indexed under the extended path.
type ActionCall struct {
	ID     string
	Needs  []string
	Action *ActionSpec
}

// ActionSpec is one action's task graph: its own Kind (local or remote)
// plus the tasks and nested action invocations it declares.
type ActionSpec struct {
	Name  string
	Kind  Kind
	Tasks []TaskSpec
	Calls []ActionCall
}

// FlowSpec is the root scope: the flow's own top-level ActionSpec plus the
// full set of declared image refs, including those contributed by every
// nested action, for check_image_refs_unique.
type FlowSpec struct {
	ActionSpec
	ImageRefs []ImageRef
}

// ImageRef names one declared image entry's ref URI and where it was
// declared, for duplicate-ref diagnostics.
type ImageRef struct {
	Ref  string
	Path Path
}
