// SPDX-License-Identifier: MPL-2.0

// Package dag orders prerequisite graphs. The convention registry uses it to
// turn a bundle and its transitive prerequisites into an application order,
// and to report the offending chain when prerequisites loop back on
// themselves.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError reports a prerequisite loop. Cycle is a closed walk in edge
	// direction: its first and last elements are the same node.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph keyed by node name. An edge from A to B means
	// A has to be handled before B.
	Graph struct {
		adjacency map[string][]string
		// nodes keeps insertion order so sorting is deterministic.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that before must be handled ahead of after. Both nodes are
// added if missing. Repeated edges are collapsed.
func (g *Graph) AddEdge(before, after string) {
	g.AddNode(before)
	g.AddNode(after)
	if slices.Contains(g.adjacency[before], after) {
		return
	}
	g.adjacency[before] = append(g.adjacency[before], after)
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool {
	return g.nodeSet[name]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// TopologicalSort returns an order in which every node follows all of its
// predecessors, using Kahn's algorithm. Nodes that become ready at the same
// time keep their insertion order. A *CycleError is returned when no such
// order exists.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, successors := range g.adjacency {
		for _, s := range successors {
			inDegree[s]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, s := range g.adjacency[node] {
			inDegree[s]--
			if inDegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(order) != len(g.nodes) {
		remaining := make(map[string]bool)
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining[node] = true
			}
		}
		return nil, &CycleError{Cycle: g.findCycle(remaining)}
	}

	return order, nil
}

// findCycle extracts one closed walk from the nodes Kahn's algorithm could not
// release. Every such node still has a predecessor inside the set, so
// following predecessors must revisit a node.
func (g *Graph) findCycle(remaining map[string]bool) []string {
	preds := make(map[string][]string)
	var start string
	for _, from := range g.nodes {
		if !remaining[from] {
			continue
		}
		if start == "" {
			start = from
		}
		for _, to := range g.adjacency[from] {
			if remaining[to] {
				preds[to] = append(preds[to], from)
			}
		}
	}

	seen := make(map[string]int)
	var walk []string
	for cur := start; ; cur = preds[cur][0] {
		if idx, ok := seen[cur]; ok {
			cycle := slices.Clone(walk[idx:])
			slices.Reverse(cycle)
			// Start the report at the earliest inserted node.
			first := 0
			for i, n := range cycle {
				if slices.Index(g.nodes, n) < slices.Index(g.nodes, cycle[first]) {
					first = i
				}
			}
			cycle = slices.Concat(cycle[first:], cycle[:first])
			return append(cycle, cycle[0])
		}
		seen[cur] = len(walk)
		walk = append(walk, cur)
	}
}
