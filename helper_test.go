package pcfg

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

// readTree reads a bracketed tree like (S (NP (N dog)) (VP (V barks)))
func readTree(t *testing.T, text string) *Node {
	t.Helper()
	fields := strings.Fields(strings.NewReplacer("(", " ( ", ")", " ) ").Replace(text))
	pos := 0
	var read func() *Node
	read = func() *Node {
		if fields[pos] != "(" {
			leaf := NewLeaf(fields[pos])
			pos++
			return leaf
		}
		pos++
		node := NewNode(fields[pos])
		pos++
		for fields[pos] != ")" {
			node.Children = append(node.Children, read())
		}
		pos++
		return node
	}
	tree := read()
	if pos != len(fields) {
		t.Fatalf("trailing input in %s", text)
	}
	return tree
}

func mustGrammar(t *testing.T, text string) *Grammar {
	t.Helper()
	g, err := ParseGrammar(text)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func checkCause(t *testing.T, err, expected error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", expected)
	}
	if errors.Cause(err) != expected {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

// checkMass verifies that the productions of every left-hand side sum to one
func checkMass(t *testing.T, g *Grammar) {
	t.Helper()
	sums := map[Symbol]float64{}
	for _, p := range g.Productions() {
		sums[p.Left] += p.Probability
	}
	for left, sum := range sums {
		if sum < 1-MassTolerance || sum > 1+MassTolerance {
			t.Fatalf("productions of %s sum to %g", left, sum)
		}
	}
}

const dogBarks = "(S (NP (N dog)) (VP (V barks)))"
