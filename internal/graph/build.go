package graph

import (
	"fmt"

	"github.com/flowctl/flowctl/internal/ferrors"
)

// ScopeGraph is one action's own dependency graph, already matrix-expanded:
// nodes are either a task's expanded cells or a nested action-call site,
// keyed by their node id within this scope.
type ScopeGraph struct {
	Path         Path
	Kind         Kind
	Nodes        []string // declaration order, post-expansion
	Predecessors map[string][]string
	NodeKind     map[string]Kind
	calls        map[string]*ActionCall // node id -> call, for nodes that recurse
}

// Graph is the full forest of ScopeGraphs produced by BuildGraphs: one per
// action scope, indexed by its path's string form ("" for the flow root).
type Graph struct {
	Scopes map[string]*ScopeGraph
	Order  []string // path keys in the order scopes were discovered
}

// BuildGraphs walks the flow's action tree, matrix-expanding every task and
// indexing each nested action invocation's own graph under its extended
// path, as spec.md §4.G describes for the batch dialect's task graphs.
func BuildGraphs(flow *FlowSpec) (*Graph, error) {
	g := &Graph{Scopes: map[string]*ScopeGraph{}}
	if err := buildScope(g, Path{}, &flow.ActionSpec); err != nil {
		return nil, err
	}
	return g, nil
}

func buildScope(g *Graph, path Path, action *ActionSpec) error {
	sg := &ScopeGraph{
		Path:         path,
		Kind:         action.Kind,
		Predecessors: map[string][]string{},
		NodeKind:     map[string]Kind{},
		calls:        map[string]*ActionCall{},
	}

	expanded := map[string][]string{} // declared id -> expanded node ids, declaration order

	for _, t := range action.Tasks {
		ids := expandTask(t)
		expanded[t.ID] = ids
		for _, id := range ids {
			if _, dup := sg.Predecessors[id]; dup {
				return &ferrors.SchemaError{Path: path.String(), Reason: fmt.Sprintf("duplicate node id %q", id)}
			}
			sg.Nodes = append(sg.Nodes, id)
			sg.NodeKind[id] = action.Kind
			sg.Predecessors[id] = nil // filled below
		}
	}
	for i := range action.Calls {
		call := &action.Calls[i]
		expanded[call.ID] = []string{call.ID}
		if _, dup := sg.Predecessors[call.ID]; dup {
			return &ferrors.SchemaError{Path: path.String(), Reason: fmt.Sprintf("duplicate node id %q", call.ID)}
		}
		sg.Nodes = append(sg.Nodes, call.ID)
		if call.Action != nil {
			sg.NodeKind[call.ID] = call.Action.Kind
		} else {
			sg.NodeKind[call.ID] = action.Kind
		}
		sg.Predecessors[call.ID] = nil
		sg.calls[call.ID] = call
	}

	// Second pass: resolve each node's declared Needs into expanded
	// predecessor node ids now that every sibling's expansion is known.
	for _, t := range action.Tasks {
		for _, id := range expanded[t.ID] {
			preds, err := resolveNeeds(path, t.Needs, expanded)
			if err != nil {
				return err
			}
			sg.Predecessors[id] = preds
		}
	}
	for i := range action.Calls {
		call := &action.Calls[i]
		preds, err := resolveNeeds(path, call.Needs, expanded)
		if err != nil {
			return err
		}
		sg.Predecessors[call.ID] = preds
	}

	g.Scopes[path.String()] = sg
	g.Order = append(g.Order, path.String())

	for i := range action.Calls {
		call := &action.Calls[i]
		if call.Action == nil {
			continue
		}
		if err := buildScope(g, path.Extend(call.ID), call.Action); err != nil {
			return err
		}
	}
	return nil
}

func expandTask(t TaskSpec) []string {
	if len(t.MatrixCells) == 0 {
		return []string{t.ID}
	}
	ids := make([]string, len(t.MatrixCells))
	for i, cell := range t.MatrixCells {
		ids[i] = t.ID + "-" + cell
	}
	return ids
}

func resolveNeeds(path Path, needs []string, expanded map[string][]string) ([]string, error) {
	var out []string
	for _, need := range needs {
		ids, ok := expanded[need]
		if !ok {
			return nil, &ferrors.UnknownEntity{Kind: "task", ID: path.Extend(need).String()}
		}
		out = append(out, ids...)
	}
	return out, nil
}
