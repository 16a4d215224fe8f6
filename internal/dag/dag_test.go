// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	order, err := New().TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_PrerequisiteChain(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("te.publishing", "te.base-conventions")
	g.AddEdge("te.base-conventions", "te.java-conventions")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"te.publishing", "te.base-conventions", "te.java-conventions"}
	if !slices.Equal(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("base", "publishing")
	g.AddEdge("base", "testing")
	g.AddEdge("publishing", "library")
	g.AddEdge("testing", "library")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"base", "publishing", "testing", "library"}
	if !slices.Equal(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestTopologicalSort_InsertionOrderBreaksTies(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("c")
	g.AddNode("a")
	g.AddNode("b")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"c", "a", "b"}) {
		t.Errorf("expected insertion order, got %v", order)
	}
}

func TestTopologicalSort_DuplicateEdges(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", order)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{
			name:  "two nodes",
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  []string{"A", "B", "A"},
		},
		{
			name:  "self loop",
			edges: [][2]string{{"A", "A"}},
			want:  []string{"A", "A"},
		},
		{
			name:  "three nodes",
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			want:  []string{"A", "B", "C", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("expected cycle %v, got %v", tt.want, cycleErr.Cycle)
			}
		})
	}
}

func TestTopologicalSort_CycleExcludesDownstreamNodes(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "A")
	g.AddEdge("B", "C")

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if slices.Contains(cycleErr.Cycle, "C") {
		t.Errorf("downstream node C reported as part of cycle %v", cycleErr.Cycle)
	}
}

func TestGraph_HasAndLen(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddNode("A")

	if !g.Has("A") || !g.Has("B") {
		t.Error("expected both edge endpoints to be nodes")
	}
	if g.Has("C") {
		t.Error("unexpected node C")
	}
	if g.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Len())
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "A"}}
	want := "dependency cycle detected: A -> B -> A"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
