package graph

import "github.com/flowctl/flowctl/internal/ferrors"

// CheckLocalDeps forbids a local task from depending, directly or
// transitively within its own scope, on a node classified Remote — an
// action invocation whose nested action runs on the cluster. Needs edges
// never cross a scope boundary, so the walk stays within sg.
func CheckLocalDeps(g *Graph) error {
	for _, key := range g.Order {
		sg := g.Scopes[key]
		for _, n := range sg.Nodes {
			if sg.NodeKind[n] != Local {
				continue
			}
			if remote := firstRemoteDep(sg, n, map[string]bool{}); remote != "" {
				return &ferrors.LocalDepError{
					LocalAction: sg.Path.Extend(n).String(),
					RemoteTask:  sg.Path.Extend(remote).String(),
				}
			}
		}
	}
	return nil
}

func firstRemoteDep(sg *ScopeGraph, n string, seen map[string]bool) string {
	if seen[n] {
		return ""
	}
	seen[n] = true
	for _, pred := range sg.Predecessors[n] {
		if sg.NodeKind[pred] == Remote {
			return pred
		}
		if found := firstRemoteDep(sg, pred, seen); found != "" {
			return found
		}
	}
	return ""
}
