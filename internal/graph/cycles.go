package graph

import "github.com/flowctl/flowctl/internal/ferrors"

type color int

const (
	white color = iota
	gray
	black
)

// CheckNoCycles runs a colored DFS over every scope in g, generalizing the
// teacher's Kahn's-algorithm topologicalSort from a single flat job map to
// these nested (path, node) scopes: DFS coloring is used instead of Kahn's
// leftover-node trick because a cycle error must name one actual
// participant, not just the set of nodes that never got a zero in-degree.
func CheckNoCycles(g *Graph) error {
	for _, key := range g.Order {
		sg := g.Scopes[key]
		colors := make(map[string]color, len(sg.Nodes))
		for _, n := range sg.Nodes {
			if colors[n] == white {
				if cyc := visit(sg, n, colors); cyc != "" {
					return &ferrors.CycleError{Path: sg.Path, Node: cyc}
				}
			}
		}
	}
	return nil
}

// visit returns the node id a cycle was detected at, or "" if the subtree
// rooted at n is acyclic.
func visit(sg *ScopeGraph, n string, colors map[string]color) string {
	colors[n] = gray
	for _, pred := range sg.Predecessors[n] {
		switch colors[pred] {
		case gray:
			return pred
		case white:
			if cyc := visit(sg, pred, colors); cyc != "" {
				return cyc
			}
		}
	}
	colors[n] = black
	return ""
}
