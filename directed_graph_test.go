package pcfg

import (
	"testing"
)

func symbolsString(symbols []Symbol) string {
	s := ""
	for i, symbol := range symbols {
		if i > 0 {
			s += " "
		}
		s += symbol.String()
	}
	return s
}

func newTestGraph() *DirectedGraph {
	s, a, b, c := NonterminalSymbol("S"), NonterminalSymbol("A"), NonterminalSymbol("B"), NonterminalSymbol("C")
	g := NewDirectedGraph()
	g.Add(s, a)
	g.Add(a, b)
	g.Add(b, a)
	g.Add(b, c)
	g.Add(b, c)
	g.AddVertex(NonterminalSymbol("D"))
	return g
}

func TestDirectedGraph(t *testing.T) {
	g := newTestGraph()
	if len(g.Vertices()) != 5 {
		t.Fatalf("5 vertices expected, got %s", symbolsString(g.Vertices()))
	}
	if !g.HasArc(NonterminalSymbol("B"), NonterminalSymbol("C")) || g.HasArc(NonterminalSymbol("C"), NonterminalSymbol("B")) {
		t.Fatal("unexpected arcs")
	}
	if g.HasArc(NonterminalSymbol("X"), NonterminalSymbol("S")) {
		t.Fatal("X is not in graph")
	}

	order := g.DFS(NonterminalSymbol("S"), map[Symbol]bool{})
	if symbolsString(order) != "S A B C" {
		t.Fatalf("'%s' != 'S A B C'", symbolsString(order))
	}

	reachable := g.Reachable(NonterminalSymbol("A"))
	if len(reachable) != 3 || reachable[NonterminalSymbol("S")] || !reachable[NonterminalSymbol("C")] {
		t.Fatalf("unexpected reachable set %v", reachable)
	}
}

func TestTopologicalSort(t *testing.T) {
	g := newTestGraph()
	order := g.TopologicalSort()
	if symbolsString(order) != "D S A B C" {
		t.Fatalf("'%s' != 'D S A B C'", symbolsString(order))
	}

	transposed := g.Transpose()
	if !transposed.HasArc(NonterminalSymbol("C"), NonterminalSymbol("B")) || transposed.HasArc(NonterminalSymbol("B"), NonterminalSymbol("C")) {
		t.Fatal("arcs should be reversed")
	}
}

func TestStrongComponents(t *testing.T) {
	g := newTestGraph()
	components := g.StrongComponents()
	if len(components) != 1 {
		t.Fatalf("1 component expected, got %d", len(components))
	}
	if symbolsString(components[0]) != "A B" {
		t.Fatalf("'%s' != 'A B'", symbolsString(components[0]))
	}

	g.Add(NonterminalSymbol("C"), NonterminalSymbol("S"))
	components = g.StrongComponents()
	if len(components) != 1 || len(components[0]) != 4 {
		t.Fatalf("S A B C should be one component, got %v", components)
	}
}
